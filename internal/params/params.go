// Package params collects the bit-width and protocol-size constants shared
// across the election core.
package params

const (
	// StatParam is the statistical security parameter in bits. No
	// protocol in this module reads it; the consonance round count is
	// ConsonanceRounds.
	StatParam = 80

	// SecParam is the computational security parameter in bits.
	SecParam = 256
	SecBytes = SecParam / 8

	// BallotProofCapsules is the number of capsules N generated in the
	// ballot-validity proof (C6). Each capsule that survives an "open"
	// challenge halves the soundness error, so N capsules give a
	// 2^-N cheating probability.
	BallotProofCapsules = 256

	// ConsonanceRounds is the number of Phase A/Phase B rounds K run
	// during the parameter-validity warmup of the election driver (C9).
	ConsonanceRounds = 20

	// MillerRabinIterations bounds the false-positive probability of the
	// primality tests performed while generating p, q during PGen (C3).
	MillerRabinIterations = 40

	// PGenMaxAttempts bounds the number of (b, p, q) restarts of PGen's
	// arithmetic-progression search, so that PGen is a total function
	// returning ErrPGenExhausted instead of looping forever.
	PGenMaxAttempts = 1 << 16

	// KeyGenMaxAttempts bounds the rejection loop that samples y until a
	// non-r-th-residue generator is found.
	KeyGenMaxAttempts = 1 << 10

	// BitsIntModN is the widest nonnegative *big.Int operand the
	// Fiat-Shamir transcript (C2) encodes at fixed width; wider or
	// negative operands are Gob-encoded instead.
	BitsIntModN = 2048

	// BytesIntModN is the canonical fixed-width encoding length used by
	// the Fiat-Shamir transcript (C2) for any nonnegative *big.Int
	// operand of at most BitsIntModN bits.
	BytesIntModN = BitsIntModN / 8
)
