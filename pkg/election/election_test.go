package election

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-benaloh/election/internal/config"
	"github.com/go-benaloh/election/pkg/zk/nthresidue"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.RingBits = 5
	cfg.PBits = 40
	cfg.QBits = 40
	cfg.MillerRabinIterations = 20
	cfg.PGenMaxAttempts = 1 << 12
	cfg.KeyGenMaxAttempts = 1 << 10
	cfg.ConsonanceRounds = 4
	cfg.BallotProofCapsules = 8
	cfg.Voters = []uint64{1, 0, 1}
	return cfg
}

func TestRun_SimulatedElection(t *testing.T) {
	cfg := testConfig()

	result, err := Run(rand.Reader, cfg)
	require.NoError(t, err)

	assert.Equal(t, uint64(2), result.Tally%result.PK.R.Big().Uint64())
	assert.Len(t, result.Ballots, 3)
	assert.Len(t, result.Receipts, 3)
	tallyPublic := nthresidue.Public{N: result.PK.N, R: result.PK.R, Z: result.TallyStatement}
	assert.True(t, result.TallyProof.Verify(tallyPublic))
	assert.NotZero(t, result.AuditHead)
}
