// Package hash implements the Fiat-Shamir challenge derivation: a
// domain-separated transcript hash over a SHA3-256-like extendable
// output function, reduced to ℤ_r or a bit vector as each sigma
// protocol requires.
package hash

import (
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/go-benaloh/election/internal/params"
)

// DigestLengthBytes is the fixed output length used when a caller wants
// a plain byte digest rather than an arbitrary-length stream.
const DigestLengthBytes = params.SecBytes // 32, matching a SHA3-256 digest

// Hash accumulates protocol messages into a transcript and derives
// challenges from it. Internally this wraps a cSHAKE-based sponge, but
// any hash function with an easily extendable output would work.
type Hash struct {
	h sha3.ShakeHash
}

// New creates a Hash whose internal state is domain-separated for this
// module, so a transcript here can never collide with a transcript
// produced by an unrelated protocol using the same primitive.
func New() *Hash {
	return &Hash{h: sha3.NewCShake256(nil, []byte("go-benaloh-election"))}
}

// Digest returns a reader over the current hash state's output stream.
// Reading from it finalizes the transcript into what is effectively an
// infinite stream of pseudorandom bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h
}

// Sum returns a fixed-length digest of the current transcript.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.h.Clone(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// HR reduces the transcript's digest modulo r, giving the ℤ_r challenge
// used by the r-th residue and consonance proofs. Since r is at most a
// few tens of bits, the reduction bias from a 256-bit digest is
// negligible.
func (hash *Hash) HR(r *big.Int) *big.Int {
	digest := hash.Sum()
	e := new(big.Int).SetBytes(digest)
	return e.Mod(e, r)
}

// HBits returns the first n bits of the transcript's digest as a bool
// vector, the challenge form used by the ballot-validity proof.
func (hash *Hash) HBits(n int) []bool {
	need := (n + 7) / 8
	buf := make([]byte, need)
	if _, err := io.ReadFull(hash.h.Clone(), buf); err != nil {
		panic(fmt.Sprintf("hash.HBits: internal hash failure: %v", err))
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		byteIdx, bitIdx := i/8, uint(i%8)
		mask := byte(0b1000_0000) >> bitIdx
		out[i] = buf[byteIdx]&mask != 0
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash
// state, using the canonical fixed-width big-endian encoding for
// *big.Int operands.
//
// Currently supported types:
//
//   - []byte
//   - *big.Int
//   - hash.WriterToWithDomain
//
// This function applies its own domain separation for the first two
// types; the last type already suggests which domain to use, so this
// function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var err error
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "[]byte",
				Bytes:     t,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write []byte: %w", err)
			}
		case *big.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *big.Int: nil")
			}
			bytes := make([]byte, params.BytesIntModN)
			if t.BitLen() <= params.BitsIntModN && t.Sign() >= 0 {
				t.FillBytes(bytes)
			} else {
				bytes, err = t.GobEncode()
				if err != nil {
					return fmt.Errorf("hash.Hash: GobEncode: %w", err)
				}
			}
			err = writeWithDomain(hash.h, &BytesWithDomain{
				TheDomain: "big.Int",
				Bytes:     bytes,
			})
			if err != nil {
				return fmt.Errorf("hash.Hash: write *big.Int: %w", err)
			}
		case WriterToWithDomain:
			if err = writeWithDomain(hash.h, t); err != nil {
				return fmt.Errorf("hash.Hash: write io.WriterTo: %w", err)
			}
		default:
			panic("hash.Hash: unsupported type")
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
