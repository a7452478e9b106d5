package keygen

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/require"

	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/sample"
)

func generateTestParams(t *testing.T) *sample.Params {
	t.Helper()
	p, err := sample.GenerateParams(rand.Reader, 5, 40, 40, 20, 1<<12)
	require.NoError(t, err)
	return p
}

// TestGenerateKeys_KeyValidity checks the spec's key validity property:
// gcd(y, n) = 1, x != 1, and x has order exactly r.
func TestGenerateKeys_KeyValidity(t *testing.T) {
	params := generateTestParams(t)
	pk, sk, err := GenerateKeys(rand.Reader, params, 1<<10)
	require.NoError(t, err)

	nBig := pk.N.Modulus.Nat().Big()
	require.Equal(t, 0, arith.GCD(pk.Y.Big(), nBig).Cmp(big.NewInt(1)))

	require.NotEqual(t, int64(1), sk.X.Big().Int64())

	rInt := pk.R.Big().Int64()
	xr := arith.PowMod(sk.X, pk.R, pk.N)
	require.Equal(t, int64(1), xr.Big().Int64())

	for k := int64(1); k < rInt; k++ {
		kNat := new(saferith.Nat).SetUint64(uint64(k))
		xk := arith.PowMod(sk.X, kNat, pk.N)
		require.NotEqual(t, int64(1), xk.Big().Int64(), "x^%d should not be 1", k)
	}
}
