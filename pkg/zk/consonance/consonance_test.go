package consonance

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/benaloh"
	"github.com/go-benaloh/election/pkg/keygen"
	"github.com/go-benaloh/election/pkg/sample"
)

func testKeys(t *testing.T) (*keygen.PublicKey, *keygen.SecretKey) {
	t.Helper()
	params, err := sample.GenerateParams(rand.Reader, 5, 40, 40, 20, 1<<12)
	require.NoError(t, err)
	pk, sk, err := keygen.GenerateKeys(rand.Reader, params, 1<<10)
	require.NoError(t, err)
	return pk, sk
}

func TestPhaseA_Completeness(t *testing.T) {
	pk, sk := testKeys(t)

	u := sample.UnitModN(rand.Reader, pk.N.Modulus)
	z := arith.PowMod(u, pk.R, pk.N)
	c := sample.ModN(rand.Reader, pk.RMod)
	yc := arith.PowMod(pk.Y, c, pk.N)
	omega := arith.MulMod(yc, z, pk.N)

	public := Public{PK: pk, Omega: omega}
	private := Private{C: c}

	proof := NewProof(rand.Reader, public, private)
	require.True(t, proof.Verify(sk, public))
}

func TestRunBatch_HonestParametersAlwaysAccept(t *testing.T) {
	pk, sk := testKeys(t)

	batch, err := RunBatch(rand.Reader, 10, pk, sk, benaloh.ScanSolver{})
	require.NoError(t, err)
	require.Len(t, batch, 10)

	rInt := pk.R.Big().Uint64()
	for _, round := range batch {
		require.Less(t, round.Answer.Big().Uint64(), rInt)
	}
}
