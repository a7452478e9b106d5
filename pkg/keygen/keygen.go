// Package keygen implements KeyGen (C4): given a consonant triplet
// (r, p, q), produces the public key (n, r, y) and secret key
// (p, q, φ, x).
package keygen

import (
	"io"
	"math/big"
	"sync"

	"github.com/bwesterb/go-exptable"
	"github.com/cronokirby/saferith"
	"github.com/go-errors/errors"

	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/sample"
)

// ErrKeyGenExhausted is raised when the rejection loop sampling a
// non-r-th-residue generator y fails to find one within maxAttempts
// tries. Since the rejection rate is 1/r, this should never trigger at
// any r worth using.
var ErrKeyGenExhausted = errors.New("keygen: exhausted retry budget sampling y")

// PublicKey is the consonant triplet (n, r, y).
type PublicKey struct {
	N *arith.Modulus
	R *saferith.Nat
	// RMod is R promoted to a Modulus, cached for challenge reduction
	// and plaintext-range checks.
	RMod *saferith.Modulus
	Y    *saferith.Nat
	// YInv is the multiplicative inverse of Y mod N, computed once at
	// key generation.
	YInv *saferith.Nat

	yTableOnce sync.Once
	yTable     *exptable.Table
}

// YTable returns a windowed exponentiation table for Y modulo N, built on
// first use. Encrypt calls raise y to a plaintext exponent bounded by r
// under the same fixed public key over and over, which is exactly the
// repeated-base pattern an exponentiation table amortizes.
func (pk *PublicKey) YTable() *exptable.Table {
	pk.yTableOnce.Do(func() {
		pk.yTable = new(exptable.Table)
		pk.yTable.Compute(pk.Y.Big(), pk.N.Modulus.Nat().Big(), 7)
	})
	return pk.yTable
}

// SecretKey holds the factorization and the derived quantities needed
// to decrypt and to extract r-th roots.
type SecretKey struct {
	*PublicKey
	P, Q *saferith.Nat
	Phi  *saferith.Nat
	// PhiOverR is φ/r, an exact integer division since r | φ.
	PhiOverR *saferith.Nat
	// X is y^(φ/r) mod n, the generator of the order-r subgroup that
	// indexes residue classes.
	X *saferith.Nat
	// RootExponent is r's inverse modulo φ/r, used to extract r-th
	// roots via A*r + B*(φ/r) = 1.
	RootExponent *saferith.Nat
}

// GenerateKeys runs KeyGen over the consonant triplet in p, sampling y
// until a non-r-th-residue is found or maxAttempts is exceeded.
func GenerateKeys(rnd io.Reader, p *sample.Params, maxAttempts int) (*PublicKey, *SecretKey, error) {
	n := arith.ModulusFromFactors(p.P, p.Q)

	one := new(saferith.Nat).SetUint64(1)
	phi := computePhi(p.P, p.Q)

	phiOverR, err := exactDiv(phi, p.R)
	if err != nil {
		return nil, nil, errors.WrapPrefix(err, "keygen: r does not divide phi exactly", 0)
	}

	rMod := saferith.ModulusFromNat(p.R)
	phiOverRMod := arith.ModulusFromN(saferith.ModulusFromNat(phiOverR))

	for attempt := 0; attempt < maxAttempts; attempt++ {
		y := sample.UnitModN(rnd, n.Modulus)
		x := arith.PowMod(y, phiOverR, n)
		if x.Eq(one) == 1 {
			continue
		}

		yInv, err := arith.InvMod(y, n)
		if err != nil {
			// y was drawn as a unit, so this should never happen.
			return nil, nil, errors.WrapPrefix(err, "keygen: sampled unit was not invertible", 0)
		}

		rootExponent, err := arith.InvMod(p.R, phiOverRMod)
		if err != nil {
			return nil, nil, errors.WrapPrefix(err, "keygen: r and phi/r are not coprime", 0)
		}

		pk := &PublicKey{
			N:    n,
			R:    p.R,
			RMod: rMod,
			Y:    y,
			YInv: yInv,
		}
		sk := &SecretKey{
			PublicKey:    pk,
			P:            p.P,
			Q:            p.Q,
			Phi:          phi,
			PhiOverR:     phiOverR,
			X:            x,
			RootExponent: rootExponent,
		}
		return pk, sk, nil
	}

	return nil, nil, errors.Wrap(ErrKeyGenExhausted, 0)
}

// computePhi returns (p-1)(q-1). It runs once per key generation, on
// math/big rather than on the fixed-width path.
func computePhi(p, q *saferith.Nat) *saferith.Nat {
	pMinus1 := new(big.Int).Sub(p.Big(), big.NewInt(1))
	qMinus1 := new(big.Int).Sub(q.Big(), big.NewInt(1))
	phi := new(big.Int).Mul(pMinus1, qMinus1)
	return new(saferith.Nat).SetBig(phi, phi.BitLen())
}

// exactDiv returns phi/r, erroring if r does not divide phi exactly.
func exactDiv(phi, r *saferith.Nat) (*saferith.Nat, error) {
	q, rem := new(big.Int), new(big.Int)
	q.DivMod(phi.Big(), r.Big(), rem)
	if rem.Sign() != 0 {
		return nil, errors.New("keygen: r does not exactly divide phi")
	}
	return new(saferith.Nat).SetBig(q, q.BitLen()), nil
}
