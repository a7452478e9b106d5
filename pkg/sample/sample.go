// Package sample provides CSPRNG-backed sampling over saferith types,
// including the arithmetic-progression parameter generator used by key
// generation.
package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
)

const maxIterations = 255

// ErrMaxIterations is raised when a rejection-sampling loop fails to find
// an acceptable value after maxIterations tries. Values are drawn from a
// CSPRNG, so this indicates a broken reader, not bad luck.
var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples a uniform element of [0, n) by rejection sampling: draw
// as many bytes as n occupies and reject until the draw lands below n.
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	buf := make([]byte, (n.BitLen()+7)/8)
	for {
		mustReadBits(rand, buf)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// UnitModN returns a uniform u ∈ ℤₙˣ, by rejection on gcd(u, n) > 1.
func UnitModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	for i := 0; i < maxIterations; i++ {
		u := ModN(rand, n)
		if u.IsUnit(n) == 1 {
			return u
		}
	}
	panic(ErrMaxIterations)
}
