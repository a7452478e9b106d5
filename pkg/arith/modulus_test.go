package arith

import (
	"crypto/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pHex = "D08769E92F80F7FDFB85EC02AFFDAED0FDE2782070757F191DCDC4D108110AC1E31C07FC253B5F7B91C5D9F203AA0572D3F2062A3D2904C535C6ACCA7D5674E1C2640720E762C72B66931F483C2D910908CF02EA6723A0CBBB1016CA696C38FEAC59B31E40584C8141889A11F7A38F5B17811D11F42CD15B8470F11C6183802B"
	qHex = "C21239C3484FC3C8409F40A9A22FABFFE26CA10C27506E3E017C2EC8C4B98D7A6D30DED0686869884BE9BAD27F5241B7313F73D19E9E4B384FABF9554B5BB4D517CBAC0268420C63D545612C9ADABEEDF20F94244E7F8F2080B0C675AC98D97C580D43375F999B1AC127EC580B89B2D302EF33DD5FD8474A241B0398F6088CA7"
)

func natFromHex(t *testing.T, hex string) *saferith.Nat {
	t.Helper()
	n, err := new(saferith.Nat).SetHex(hex)
	require.NoError(t, err, "malformed test fixture")
	return n
}

// TestModulus_ExpMatchesFactorization checks that the CRT-accelerated
// path and the plain path agree, for both positive and negative
// exponents, on a modulus built from known factors.
func TestModulus_ExpMatchesFactorization(t *testing.T) {
	p := natFromHex(t, pHex)
	q := natFromHex(t, qHex)

	nNat := new(saferith.Nat).Mul(p, q, -1)
	nMod := saferith.ModulusFromNat(nNat)

	fast := ModulusFromFactors(p, q)
	slow := ModulusFromN(nMod)
	assert.Equal(t, saferith.Choice(1), fast.Nat().Eq(slow.Nat()), "n should match regardless of construction path")

	x := new(saferith.Nat).SetUint64(12345)
	e := new(saferith.Nat).SetUint64(6789)

	want := new(saferith.Nat).Exp(x, e, nMod)
	gotFast := fast.Exp(x, e)
	gotSlow := slow.Exp(x, e)
	assert.Equal(t, saferith.Choice(1), want.Eq(gotFast), "CRT-accelerated exponentiation should match the plain path")
	assert.Equal(t, saferith.Choice(1), want.Eq(gotSlow), "unaccelerated wrapper should match the plain path")

	eNeg := new(saferith.Int).SetNat(e).Neg(1)
	wantI := new(saferith.Nat).ExpI(x, eNeg, nMod)
	gotFastI := fast.ExpI(x, eNeg)
	gotSlowI := slow.ExpI(x, eNeg)
	assert.Equal(t, saferith.Choice(1), wantI.Eq(gotFastI), "CRT-accelerated negative exponentiation should match the plain path")
	assert.Equal(t, saferith.Choice(1), wantI.Eq(gotSlowI), "unaccelerated negative exponentiation should match the plain path")
}

func TestModulus_ExpWithoutFactorization(t *testing.T) {
	nNat, err := rand.Prime(rand.Reader, 256)
	require.NoError(t, err)
	n := saferith.ModulusFromNat(new(saferith.Nat).SetBig(nNat, nNat.BitLen()))
	m := ModulusFromN(n)

	x := new(saferith.Nat).SetUint64(7)
	e := new(saferith.Nat).SetUint64(1000)

	want := new(saferith.Nat).Exp(x, e, n)
	got := m.Exp(x, e)
	assert.Equal(t, saferith.Choice(1), want.Eq(got))
}
