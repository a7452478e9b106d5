// Package nthresidue implements the r-th residue proof (C7): a
// Fiat-Shamir sigma protocol proving that z ∈ ℤ_n^* is an r-th residue
// without revealing the witness x with z = x^r mod n.
//
// The tally proof reuses this exact protocol: the authority proves that
// Ω·y^{-c} is an r-th residue for the claimed tally c, where Ω is the
// product of all submitted ciphertexts.
package nthresidue

import (
	"io"

	"github.com/cronokirby/saferith"

	"github.com/go-benaloh/election/internal/hash"
	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/sample"
)

// Public is the statement: z is claimed to be an r-th residue mod n.
type Public struct {
	N *arith.Modulus
	R *saferith.Nat
	Z *saferith.Nat
}

// Private is the witness x with z = x^r mod n.
type Private struct {
	X *saferith.Nat
}

// Commitment is z' = (x')^r mod n for a freshly sampled x'.
type Commitment struct {
	ZPrime *saferith.Nat
}

// Proof is the commitment plus the Fiat-Shamir response ρ = x'·x^b mod n.
type Proof struct {
	Commitment
	Rho *saferith.Nat
}

// NewProof samples x' ∈ ℤ_n^*, derives the challenge from (z, z') via
// Fiat-Shamir, and returns ρ = x'·x^b mod n.
func NewProof(rnd io.Reader, public Public, private Private) *Proof {
	xPrime := sample.UnitModN(rnd, public.N.Modulus)
	zPrime := arith.PowMod(xPrime, public.R, public.N)

	commitment := Commitment{ZPrime: zPrime}
	b := challenge(public, commitment)

	xb := arith.PowMod(private.X, b, public.N)
	rho := arith.MulMod(xPrime, xb, public.N)

	return &Proof{Commitment: commitment, Rho: rho}
}

// Verify checks ρ^r ≡ z'·z^b (mod n).
func (p *Proof) Verify(public Public) bool {
	b := challenge(public, p.Commitment)

	lhs := arith.PowMod(p.Rho, public.R, public.N)

	zb := arith.PowMod(public.Z, b, public.N)
	rhs := arith.MulMod(p.ZPrime, zb, public.N)

	return lhs.Eq(rhs) == 1
}

// challenge derives b = H_r(canon(z ‖ z')) ∈ ℤ_r.
func challenge(public Public, commitment Commitment) *saferith.Nat {
	h := hash.New()
	if err := h.WriteAny(public.Z.Big(), commitment.ZPrime.Big()); err != nil {
		panic("nthresidue: hashing statement: " + err.Error())
	}
	bBig := h.HR(public.R.Big())
	return new(saferith.Nat).SetBig(bBig, bBig.BitLen())
}
