package arith

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/go-errors/errors"
)

// ErrNotCoprime is returned by InvMod when a has no inverse modulo m.
var ErrNotCoprime = errors.New("arith: value is not invertible modulo m")

// MulMod returns a*b (mod m).
func MulMod(a, b *saferith.Nat, m *Modulus) *saferith.Nat {
	return new(saferith.Nat).ModMul(a, b, m.Modulus)
}

// PowMod returns base^exp (mod m), using the CRT acceleration in m when
// its factorization is known.
func PowMod(base, exp *saferith.Nat, m *Modulus) *saferith.Nat {
	return m.Exp(base, exp)
}

// InvMod returns a^-1 (mod m), or ErrNotCoprime if gcd(a, m) != 1.
//
// The coprimality check is done on math/big values rather than trusting
// saferith to signal non-invertibility, since ModInverse's behavior on a
// non-unit is unspecified.
func InvMod(a *saferith.Nat, m *Modulus) (*saferith.Nat, error) {
	aBig := a.Big()
	mBig := m.Modulus.Nat().Big()
	if !IsCoprime(aBig, mBig) {
		return nil, errors.Wrap(ErrNotCoprime, 0)
	}
	return new(saferith.Nat).ModInverse(a, m.Modulus), nil
}

// GCD returns gcd(a, b). Not a modular operation, and not on the hot
// path of any sigma protocol, so it operates directly on math/big.Int
// rather than the fixed-width saferith types (see DESIGN.md).
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, a, b)
}

// IsPrime reports whether x is prime with negligible false-positive
// probability, per iterations rounds of Miller-Rabin. Delegates to
// math/big.Int.ProbablyPrime for the same reason as GCD.
func IsPrime(x *big.Int, iterations int) bool {
	return x.ProbablyPrime(iterations)
}
