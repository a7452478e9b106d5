// Package benaloh implements Encrypt, Decrypt, and Combine (C5): the
// homomorphic higher-residuosity cryptosystem itself, layered on top of
// the consonant triplet produced by pkg/sample and the keys produced by
// pkg/keygen.
package benaloh

import (
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/go-errors/errors"

	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/keygen"
	"github.com/go-benaloh/election/pkg/sample"
)

// ErrInvalidRange is raised when a plaintext falls outside [0, r).
var ErrInvalidRange = errors.New("benaloh: value out of range [0, r)")

// ErrDecryptInconsistent is raised when the discrete-log scan over the
// order-r subgroup finds no matching exponent, indicating a ciphertext
// outside ℤ_n^* or a corrupted key.
var ErrDecryptInconsistent = errors.New("benaloh: no discrete log found in [0, r)")

// Ciphertext is ω = y^m · u^r mod n.
type Ciphertext struct {
	C *saferith.Nat
}

// Encrypt returns ω = y^m · u^r mod n for a fresh random unit u,
// requiring 0 ≤ m < r.
func Encrypt(rnd io.Reader, pk *keygen.PublicKey, m *saferith.Nat) (*Ciphertext, error) {
	ct, _, err := EncryptWithWitness(rnd, pk, m)
	return ct, err
}

// EncryptWithWitness is Encrypt, additionally returning the randomness u
// used to build ω. The ballot-validity proof needs this witness to prove
// its statement about the very ciphertext it accompanies.
func EncryptWithWitness(rnd io.Reader, pk *keygen.PublicKey, m *saferith.Nat) (*Ciphertext, *saferith.Nat, error) {
	if _, _, lt := m.CmpMod(pk.RMod); lt != 1 {
		return nil, nil, errors.Wrap(ErrInvalidRange, 0)
	}

	u := sample.UnitModN(rnd, pk.N.Modulus)
	uR := arith.PowMod(u, pk.R, pk.N)

	// exptable.Table.Exp writes into a plain *math/big.Int; round trip
	// through saferith so the rest of the arithmetic stays on the
	// fixed-width path.
	ymBig := new(big.Int)
	pk.YTable().Exp(ymBig, m.Big())
	ym := new(saferith.Nat).SetBig(ymBig, ymBig.BitLen())

	c := arith.MulMod(ym, uR, pk.N)
	return &Ciphertext{C: c}, u, nil
}

// Combine returns ω_1·ω_2 mod n, the homomorphic sum of the two
// ciphertexts' residue classes mod r.
func Combine(pk *keygen.PublicKey, a, b *Ciphertext) *Ciphertext {
	return &Ciphertext{C: arith.MulMod(a.C, b.C, pk.N)}
}

// DiscreteLogSolver recovers m from a = x^m mod n, given the generator x
// of the order-r subgroup. The contract is fixed by the spec; the
// algorithm behind it is a pluggable strategy.
type DiscreteLogSolver interface {
	Solve(n *arith.Modulus, x, a *saferith.Nat, r *saferith.Nat) (*saferith.Nat, error)
}

// ScanSolver walks m = 0, 1, 2, … maintaining a running accumulator
// x^m, and — per the timing policy in the spec — always scans the full
// range [0, r) even after a match is found, so that the time taken does
// not itself leak which m matched.
type ScanSolver struct{}

// Solve implements DiscreteLogSolver by linear scan over [0, r).
func (ScanSolver) Solve(n *arith.Modulus, x, a *saferith.Nat, r *saferith.Nat) (*saferith.Nat, error) {
	rInt := r.Big().Uint64()

	acc := new(saferith.Nat).SetUint64(1)
	found := false
	var match uint64

	for m := uint64(0); m < rInt; m++ {
		if acc.Eq(a) == 1 {
			if !found {
				match = m
				found = true
			}
			// Do not break: the scan continues to r-1 regardless.
		}
		acc = arith.MulMod(acc, x, n)
	}

	if !found {
		return nil, errors.Wrap(ErrDecryptInconsistent, 0)
	}
	return new(saferith.Nat).SetUint64(match), nil
}

// Decrypt recovers m from a ciphertext by raising it to φ/r and running
// solver over the order-r subgroup generated by x = sk.X.
func Decrypt(sk *keygen.SecretKey, ct *Ciphertext, solver DiscreteLogSolver) (*saferith.Nat, error) {
	a := arith.PowMod(ct.C, sk.PhiOverR, sk.N)
	m, err := solver.Solve(sk.N, sk.X, a, sk.R)
	if err != nil {
		return nil, errors.WrapPrefix(err, "benaloh: decrypt", 0)
	}
	return m, nil
}

// RthRoot extracts an r-th root of z mod n using the Bezout identity
// A·r + B·(φ/r) = 1: since gcd(r, φ/r) = 1, z^A is an r-th root of z
// whenever z genuinely is an r-th residue. ok is false when it is not.
func RthRoot(sk *keygen.SecretKey, z *saferith.Nat) (root *saferith.Nat, ok bool) {
	root = arith.PowMod(z, sk.RootExponent, sk.N)
	check := arith.PowMod(root, sk.R, sk.N)
	return root, check.Eq(z) == 1
}
