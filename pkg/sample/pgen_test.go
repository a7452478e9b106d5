package sample

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParams_Consonance(t *testing.T) {
	params, err := GenerateParams(rand.Reader, 5, 40, 40, 20, 1<<12)
	require.NoError(t, err)

	r := params.R.Big()
	p := params.P.Big()
	q := params.Q.Big()

	assert.True(t, r.ProbablyPrime(20), "r must be prime")
	assert.True(t, p.ProbablyPrime(20), "p must be prime")
	assert.True(t, q.ProbablyPrime(20), "q must be prime")

	one := big.NewInt(1)
	pMinus1 := new(big.Int).Sub(p, one)
	qMinus1 := new(big.Int).Sub(q, one)

	assert.Zero(t, new(big.Int).Mod(pMinus1, r).Sign(), "r must divide p-1")

	rSquared := new(big.Int).Mul(r, r)
	assert.NotZero(t, new(big.Int).Mod(pMinus1, rSquared).Sign(), "r^2 must not divide p-1")

	gcd := new(big.Int).GCD(nil, nil, r, qMinus1)
	assert.Equal(t, 0, gcd.Cmp(one), "r and q-1 must be coprime")
}

func TestGenerateParams_ExhaustsRetryBudget(t *testing.T) {
	// With a retry budget of zero, PGen samples r and then gives up
	// without trying any (b, p, q), exercising the exhaustion path.
	_, err := GenerateParams(rand.Reader, 5, 512, 512, 20, 0)
	assert.ErrorIs(t, err, ErrPGenExhausted)
}
