package sample

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/go-errors/errors"

	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/pool"
)

// ErrPGenExhausted is raised when the arithmetic-progression search for a
// consonant (r, p, q) triplet fails to converge within the configured
// retry ceiling. Practically unreachable at the bit widths this module
// targets; its presence turns an unbounded search into a total function.
var ErrPGenExhausted = errors.New("sample: PGen exhausted its retry budget")

// Params is a consonant triplet (r, p, q): r | (p-1), r² ∤ (p-1), and
// gcd(r, q-1) = 1.
type Params struct {
	R, P, Q *saferith.Nat
}

// GenerateParams runs PGen: it samples a ring prime r of bit width kr,
// then searches the arithmetic progressions p = r²x + rb + 1 and
// q = rx + b + 1 for primes of at least kp and kq bits respectively,
// restarting from a fresh b whenever the consonance invariants fail to
// hold. maxAttempts bounds the number of (b, p, q) restarts.
func GenerateParams(rnd io.Reader, kr, kp, kq, millerRabinIterations, maxAttempts int) (*Params, error) {
	r, err := rand.Prime(rnd, kr)
	if err != nil {
		return nil, errors.WrapPrefix(err, "sample: generating ring prime r", 0)
	}

	one := big.NewInt(1)
	two := big.NewInt(2)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b, err := rand.Int(rnd, new(big.Int).Sub(r, two))
		if err != nil {
			return nil, errors.WrapPrefix(err, "sample: sampling b", 0)
		}
		b.Add(b, two) // b ∈ [2, r)

		p, err := findProgressionPrime(rnd, kp, millerRabinIterations, func(x *big.Int) *big.Int {
			// p = r²x + rb + 1
			t := new(big.Int).Mul(r, r)
			t.Mul(t, x)
			rb := new(big.Int).Mul(r, b)
			t.Add(t, rb)
			return t.Add(t, one)
		})
		if err != nil {
			continue
		}

		q, err := findProgressionPrime(rnd, kq, millerRabinIterations, func(x *big.Int) *big.Int {
			// q = rx + b + 1
			t := new(big.Int).Mul(r, x)
			t.Add(t, b)
			return t.Add(t, one)
		})
		if err != nil {
			continue
		}

		if !verifyConsonance(r, p, q) {
			continue
		}

		return &Params{
			R: new(saferith.Nat).SetBig(r, r.BitLen()),
			P: new(saferith.Nat).SetBig(p, p.BitLen()),
			Q: new(saferith.Nat).SetBig(q, q.BitLen()),
		}, nil
	}

	return nil, errors.Wrap(ErrPGenExhausted, 0)
}

// progressionBatch bounds how many candidates findProgressionPrime asks
// its worker pool to test at once.
const progressionBatch = 64

// findProgressionPrime searches an arithmetic progression, parameterized
// by x, for the first prime of at least targetBits bits. Each draw of x
// is independent of every other, so candidates are tested in parallel
// batches across a worker pool rather than one at a time; it gives up
// after maxIterations draws so that a single (b) restart cannot hang
// forever.
func findProgressionPrime(rnd io.Reader, targetBits, millerRabinIterations int, progression func(x *big.Int) *big.Int) (*big.Int, error) {
	// x is the dominant term of the progression; size it so that the
	// resulting candidate reaches the requested bit width.
	xBound := new(big.Int).Lsh(bigOne, uint(targetBits))

	const maxIterations = 1 << 14
	safeRnd := pool.NewLockedReader(rnd)
	workers := pool.NewPool(0)
	defer workers.TearDown()

	for attempted := 0; attempted < maxIterations; attempted += progressionBatch {
		results := workers.Parallelize(progressionBatch, func(int) interface{} {
			x, err := rand.Int(safeRnd, xBound)
			if err != nil {
				panic(err)
			}
			candidate := progression(x)
			if candidate.BitLen() < targetBits {
				return nil
			}
			if !arith.IsPrime(candidate, millerRabinIterations) {
				return nil
			}
			return candidate
		})
		for _, r := range results {
			if r != nil {
				return r.(*big.Int), nil
			}
		}
	}
	return nil, ErrPGenExhausted
}

var bigOne = big.NewInt(1)

// verifyConsonance re-checks the divisibility conditions that PGen's
// arithmetic progression is supposed to guarantee by construction.
func verifyConsonance(r, p, q *big.Int) bool {
	pMinus1 := new(big.Int).Sub(p, bigOne)
	qMinus1 := new(big.Int).Sub(q, bigOne)

	if new(big.Int).Mod(pMinus1, r).Sign() != 0 {
		return false
	}
	rSquared := new(big.Int).Mul(r, r)
	if new(big.Int).Mod(pMinus1, rSquared).Sign() == 0 {
		return false
	}
	if !arith.IsCoprime(r, qMinus1) {
		return false
	}
	return true
}
