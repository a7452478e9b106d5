// Package consonance implements the consonance / plaintext-knowledge
// proof (C8): a voter proves knowledge of the residue class of a
// self-chosen challenge ciphertext (Phase A, Fiat-Shamir), and the
// authority rebuts by decrypting it and returning the claimed class
// (Phase B, interactive). The two phases are repeated K times to drive
// a dishonestly-parameterized authority's cheat probability down to
// (1/r)^K.
package consonance

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/go-errors/errors"

	"github.com/go-benaloh/election/internal/hash"
	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/benaloh"
	"github.com/go-benaloh/election/pkg/keygen"
	"github.com/go-benaloh/election/pkg/sample"
)

// ErrPhaseARejected is returned when the authority's Phase A check
// fails: the claimed residue class does not match the committed
// challenge ciphertext.
var ErrPhaseARejected = errors.New("consonance: phase A proof rejected")

// ErrRebuttalMismatch is returned when the authority's Phase B
// decryption of the challenge ciphertext disagrees with the voter's own
// known residue class, indicating dishonestly generated parameters.
var ErrRebuttalMismatch = errors.New("consonance: phase B rebuttal disagrees with known class")

// Public is Phase A's statement: Omega = y^c · z for some r-th residue
// z, with c known to the prover.
type Public struct {
	PK    *keygen.PublicKey
	Omega *saferith.Nat
}

// Private is the prover's knowledge of the residue class of Omega.
type Private struct {
	C *saferith.Nat
}

// Proof is Phase A's commitment and response.
type Proof struct {
	OmegaPrime *saferith.Nat
	Rho        *saferith.Nat
}

// NewProof samples a fresh commitment ω' = y^c'·z' for random c' ∈ ℤ_r
// and a random r-th residue z', derives the Fiat-Shamir challenge, and
// returns ρ = c' + b·c mod r.
func NewProof(rnd io.Reader, public Public, private Private) *Proof {
	n := public.PK.N
	r := public.PK.R
	y := public.PK.Y

	uPrime := sample.UnitModN(rnd, n.Modulus)
	zPrime := arith.PowMod(uPrime, r, n)

	cPrime := sample.ModN(rnd, public.PK.RMod)
	yCPrime := arith.PowMod(y, cPrime, n)
	omegaPrime := arith.MulMod(yCPrime, zPrime, n)

	b := challenge(public, omegaPrime)

	bc := new(saferith.Nat).ModMul(b, private.C, public.PK.RMod)
	rho := new(saferith.Nat).ModAdd(cPrime, bc, public.PK.RMod)

	return &Proof{OmegaPrime: omegaPrime, Rho: rho}
}

// Verify checks 0 ≤ ρ < r and that (ω^b·ω'·y^{-ρ})^{φ/r} ≡ 1 (mod n).
// Only the authority, holding φ, can run this check — this is Phase A's
// verifier, not a public one.
func (p *Proof) Verify(sk *keygen.SecretKey, public Public) bool {
	if _, _, lt := p.Rho.CmpMod(sk.RMod); lt != 1 {
		return false
	}

	n := sk.N
	b := challenge(public, p.OmegaPrime)

	omegaB := arith.PowMod(public.Omega, b, n)
	lhs := arith.MulMod(omegaB, p.OmegaPrime, n)

	yRho := arith.PowMod(sk.Y, p.Rho, n)
	yRhoInv, err := arith.InvMod(yRho, n)
	if err != nil {
		return false
	}
	witness := arith.MulMod(lhs, yRhoInv, n)

	t := arith.PowMod(witness, sk.PhiOverR, n)
	one := new(saferith.Nat).SetUint64(1)
	return t.Eq(one) == 1
}

// challenge derives b = H_r(canon(ω ‖ ω')) ∈ ℤ_r.
func challenge(public Public, omegaPrime *saferith.Nat) *saferith.Nat {
	h := hash.New()
	if err := h.WriteAny(public.Omega.Big(), omegaPrime.Big()); err != nil {
		panic("consonance: hashing statement: " + err.Error())
	}
	bBig := h.HR(public.PK.R.Big())
	return new(saferith.Nat).SetBig(bBig, bBig.BitLen())
}

// PhaseB is the authority's bare, non-Fiat-Shamir decryption of the
// challenge ciphertext, run only after Phase A has been accepted.
func PhaseB(sk *keygen.SecretKey, omega *saferith.Nat, solver benaloh.DiscreteLogSolver) (*saferith.Nat, error) {
	a := arith.PowMod(omega, sk.PhiOverR, sk.N)
	m, err := solver.Solve(sk.N, sk.X, a, sk.R)
	if err != nil {
		return nil, errors.WrapPrefix(err, "consonance: phase B decryption", 0)
	}
	return m, nil
}

// Rebuttal is one completed round: the voter's challenge and Phase A
// proof, and the authority's Phase B answer.
type Rebuttal struct {
	Public Public
	Proof  *Proof
	Answer *saferith.Nat
}

// Batch is K rounds of the consonance check.
type Batch []Rebuttal

// RunBatch drives K rounds end to end: the voter picks a fresh challenge
// ciphertext of known residue class each round, proves knowledge of it
// via Phase A, and the authority rebuts via Phase B. It stops at the
// first round that fails either check.
func RunBatch(rnd io.Reader, k int, pk *keygen.PublicKey, sk *keygen.SecretKey, solver benaloh.DiscreteLogSolver) (Batch, error) {
	batch := make(Batch, 0, k)

	for i := 0; i < k; i++ {
		u := sample.UnitModN(rnd, pk.N.Modulus)
		z := arith.PowMod(u, pk.R, pk.N)

		c := sample.ModN(rnd, pk.RMod)
		yc := arith.PowMod(pk.Y, c, pk.N)
		omega := arith.MulMod(yc, z, pk.N)

		public := Public{PK: pk, Omega: omega}
		private := Private{C: c}
		proof := NewProof(rnd, public, private)

		if !proof.Verify(sk, public) {
			return batch, errors.WrapPrefix(ErrPhaseARejected, "consonance: round", 0)
		}

		answer, err := PhaseB(sk, omega, solver)
		if err != nil {
			return batch, err
		}
		if answer.Eq(c) != 1 {
			return batch, errors.WrapPrefix(ErrRebuttalMismatch, "consonance: round", 0)
		}

		batch = append(batch, Rebuttal{Public: public, Proof: proof, Answer: answer})
	}

	return batch, nil
}
