// Package ballot implements the ballot-validity proof (C6): a
// capsule-of-N Fiat-Shamir protocol proving that a submitted ciphertext
// encrypts a bit, c ∈ {0, 1}, without revealing which.
package ballot

import (
	"io"

	"github.com/cronokirby/saferith"
	"golang.org/x/sync/errgroup"

	"github.com/go-benaloh/election/internal/hash"
	"github.com/go-benaloh/election/internal/params"
	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/keygen"
	"github.com/go-benaloh/election/pkg/sample"
)

// DefaultCapsules is the N the driver uses in production: soundness
// error 2^-256. Tests exercise smaller N directly to keep runtimes
// reasonable while still observing the soundness bound.
const DefaultCapsules = params.BallotProofCapsules

// Public is the statement: Omega = y^c · U^r mod n for some c ∈ {0, 1}.
type Public struct {
	PK    *keygen.PublicKey
	Omega *saferith.Nat
}

// Private is the witness: the plaintext bit and the randomness used to
// encrypt it.
type Private struct {
	C uint64
	U *saferith.Nat
}

type capsule struct {
	a, b *saferith.Nat
	s    bool
	u, v *saferith.Nat
}

// Response is one capsule's answer: either an "open" revealing the full
// decomposition, or a "consume" revealing the ratio that ties the
// ciphertext to one of the two committed slots.
type Response struct {
	Open bool
	A, B *saferith.Nat
	S    bool
	Rho  *saferith.Nat
}

// Proof is the N committed capsule pairs plus their N responses. N is
// implicit in the slice lengths.
type Proof struct {
	U, V      []*saferith.Nat
	Responses []Response
}

// NewProof runs the N-capsule commitment round in parallel — spec §5
// explicitly permits parallelizing the embarrassingly-parallel N-capsule
// commitment — derives the challenge, and answers each round.
func NewProof(rnd io.Reader, rounds int, public Public, private Private) (*Proof, error) {
	n := public.PK.N
	r := public.PK.R
	y := public.PK.Y

	capsules := make([]capsule, rounds)
	var g errgroup.Group
	for i := 0; i < rounds; i++ {
		i := i
		g.Go(func() error {
			a := sample.UnitModN(rnd, n.Modulus)
			b := sample.UnitModN(rnd, n.Modulus)
			s := randBit(rnd)

			aR := arith.PowMod(a, r, n)
			bR := arith.PowMod(b, r, n)
			ybR := arith.MulMod(y, bR, n)

			var u, v *saferith.Nat
			if !s {
				u, v = aR, ybR
			} else {
				u, v = ybR, aR
			}
			capsules[i] = capsule{a: a, b: b, s: s, u: u, v: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	us := make([]*saferith.Nat, rounds)
	vs := make([]*saferith.Nat, rounds)
	for i, c := range capsules {
		us[i], vs[i] = c.u, c.v
	}

	e := challenge(public, us, vs)

	uInv, err := arith.InvMod(private.U, n)
	if err != nil {
		return nil, err
	}

	responses := make([]Response, rounds)
	for i, c := range capsules {
		if !e[i] {
			responses[i] = Response{Open: true, A: c.a, B: c.b, S: c.s}
			continue
		}
		z := c.a
		if private.C != 0 {
			z = c.b
		}
		responses[i] = Response{Rho: arith.MulMod(uInv, z, n)}
	}

	return &Proof{U: us, V: vs, Responses: responses}, nil
}

// Verify recomputes the challenge from the committed capsules and checks
// every one of the N branches. N is read off the proof's own slice
// lengths: a proof whose slices are empty or of unequal lengths is
// rejected outright, and no minimum N is enforced here.
func (p *Proof) Verify(public Public) bool {
	rounds := len(p.U)
	if rounds == 0 || len(p.V) != rounds || len(p.Responses) != rounds {
		return false
	}

	n := public.PK.N
	r := public.PK.R
	y := public.PK.Y

	e := challenge(public, p.U, p.V)

	for i, resp := range p.Responses {
		if e[i] {
			if resp.Open || resp.Rho == nil {
				return false
			}
			rhoR := arith.PowMod(resp.Rho, r, n)
			candidate := arith.MulMod(public.Omega, rhoR, n)
			if candidate.Eq(p.U[i]) != 1 && candidate.Eq(p.V[i]) != 1 {
				return false
			}
			continue
		}

		if !resp.Open || resp.A == nil || resp.B == nil {
			return false
		}
		aR := arith.PowMod(resp.A, r, n)
		bR := arith.PowMod(resp.B, r, n)
		ybR := arith.MulMod(y, bR, n)

		var wantU, wantV *saferith.Nat
		if !resp.S {
			wantU, wantV = aR, ybR
		} else {
			wantU, wantV = ybR, aR
		}
		if wantU.Eq(p.U[i]) != 1 || wantV.Eq(p.V[i]) != 1 {
			return false
		}
	}
	return true
}

// challenge derives e = H_bits(canon(ω ‖ (u_i, v_i)_{i<N}), N).
func challenge(public Public, us, vs []*saferith.Nat) []bool {
	h := hash.New()
	if err := h.WriteAny(public.Omega.Big()); err != nil {
		panic("ballot: hashing statement: " + err.Error())
	}
	for i := range us {
		if err := h.WriteAny(arith.IDToBytes(uint32(i)), us[i].Big(), vs[i].Big()); err != nil {
			panic("ballot: hashing capsule: " + err.Error())
		}
	}
	return h.HBits(len(us))
}

func randBit(rnd io.Reader) bool {
	var b [1]byte
	if _, err := io.ReadFull(rnd, b[:]); err != nil {
		panic("ballot: reading random bit: " + err.Error())
	}
	return b[0]&1 == 1
}
