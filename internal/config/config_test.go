package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Positive(t, cfg.RingBits)
	assert.Positive(t, cfg.PBits)
	assert.Positive(t, cfg.QBits)
	assert.NotEmpty(t, cfg.Voters)
}

func TestLoad_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "election.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ring_bits: 24\nvoters: [1, 1, 0, 0]\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.RingBits)
	assert.Equal(t, []uint64{1, 1, 0, 0}, cfg.Voters)
	assert.Equal(t, Default().PBits, cfg.PBits, "unset fields keep their default")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
