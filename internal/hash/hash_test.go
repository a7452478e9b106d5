package hash

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	testFunc := func(vs ...interface{}) error {
		h := New()
		for _, v := range vs {
			if err := h.WriteAny(v); err != nil {
				return err
			}
		}
		return nil
	}

	assert.NoError(t, testFunc(big.NewInt(35)))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.NoError(t, testFunc(big.NewInt(35), []byte{1, 4, 6}))

	var nilInt *big.Int
	assert.Error(t, testFunc(nilInt))
}

func TestHash_Determinism(t *testing.T) {
	build := func() []byte {
		h := New()
		require.NoError(t, h.WriteAny(big.NewInt(1234), []byte("statement")))
		return h.Sum()
	}

	assert.Equal(t, build(), build())
}

func TestHash_HR(t *testing.T) {
	r := big.NewInt(97)
	h1 := New()
	require.NoError(t, h1.WriteAny(big.NewInt(42)))
	e1 := h1.HR(r)

	h2 := New()
	require.NoError(t, h2.WriteAny(big.NewInt(42)))
	e2 := h2.HR(r)

	assert.Equal(t, e1, e2)
	assert.True(t, e1.Sign() >= 0 && e1.Cmp(r) < 0)
}

func TestHash_HBits(t *testing.T) {
	h1 := New()
	require.NoError(t, h1.WriteAny([]byte("capsules")))
	bits1 := h1.HBits(256)

	h2 := New()
	require.NoError(t, h2.WriteAny([]byte("capsules")))
	bits2 := h2.HBits(256)

	assert.Equal(t, bits1, bits2)
	assert.Len(t, bits1, 256)
}

func TestHash_Clone(t *testing.T) {
	base := New()
	require.NoError(t, base.WriteAny([]byte("shared prefix")))

	a := base.Clone()
	b := base.Clone()
	require.NoError(t, a.WriteAny([]byte("a")))
	require.NoError(t, b.WriteAny([]byte("b")))

	assert.NotEqual(t, a.Sum(), b.Sum())
}
