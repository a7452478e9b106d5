// Package config loads the parameters an election run needs: the bit
// widths PGen samples at, the ballot-proof capsule count, and the
// consonance-check round count.
package config

import (
	"os"

	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"

	"github.com/go-benaloh/election/internal/params"
)

// Config is the full set of tunables for one election run.
type Config struct {
	// RingBits, PBits, QBits are the bit widths PGen samples r, p, and q
	// at.
	RingBits int `yaml:"ring_bits"`
	PBits    int `yaml:"p_bits"`
	QBits    int `yaml:"q_bits"`

	// MillerRabinIterations is the confidence level PGen's primality
	// tests run at.
	MillerRabinIterations int `yaml:"miller_rabin_iterations"`

	// BallotProofCapsules is N, the ballot-validity proof's round count.
	BallotProofCapsules int `yaml:"ballot_proof_capsules"`

	// ConsonanceRounds is K, the consonance-check batch size.
	ConsonanceRounds int `yaml:"consonance_rounds"`

	// PGenMaxAttempts and KeyGenMaxAttempts bound the two retry loops.
	PGenMaxAttempts   int `yaml:"pgen_max_attempts"`
	KeyGenMaxAttempts int `yaml:"keygen_max_attempts"`

	// Voters are the plaintext ballots a simulated election casts, one
	// per voter, each expected to be 0 or 1.
	Voters []uint64 `yaml:"voters"`
}

// Default returns the parameters used when no config file is supplied:
// small enough to run quickly, large enough to be cryptographically
// meaningful, per spec §8's own testing guidance.
func Default() *Config {
	return &Config{
		RingBits:              16,
		PBits:                 64,
		QBits:                 64,
		MillerRabinIterations: params.MillerRabinIterations,
		BallotProofCapsules:   params.BallotProofCapsules,
		ConsonanceRounds:      params.ConsonanceRounds,
		PGenMaxAttempts:       params.PGenMaxAttempts,
		KeyGenMaxAttempts:     params.KeyGenMaxAttempts,
		Voters:                []uint64{1, 0, 1},
	}
}

// Load reads a YAML config file; any field the file does not set keeps
// its Default() value.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapPrefix(err, "config: reading "+path, 0)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapPrefix(err, "config: parsing "+path, 0)
	}

	if cfg.RingBits <= 0 || cfg.PBits <= 0 || cfg.QBits <= 0 {
		return nil, errors.New("config: ring_bits, p_bits, and q_bits must be positive")
	}
	return cfg, nil
}
