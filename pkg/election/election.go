// Package election implements the election driver (C9): it orchestrates
// PGen, KeyGen, the consonance warmup, per-voter ballot casting with its
// validity proof, tally aggregation and decryption, and the tally's
// r-th-residue proof, following original_source's simple_election flow.
package election

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/multiformats/go-multihash"

	"github.com/cronokirby/saferith"

	"github.com/go-benaloh/election/internal/auditlog"
	"github.com/go-benaloh/election/internal/config"
	"github.com/go-benaloh/election/internal/logging"
	"github.com/go-benaloh/election/pkg/arith"
	"github.com/go-benaloh/election/pkg/benaloh"
	"github.com/go-benaloh/election/pkg/keygen"
	"github.com/go-benaloh/election/pkg/sample"
	"github.com/go-benaloh/election/pkg/zk/ballot"
	"github.com/go-benaloh/election/pkg/zk/consonance"
	"github.com/go-benaloh/election/pkg/zk/nthresidue"
)

// ErrBallotRejected is raised when a cast ballot's validity proof fails
// to verify.
var ErrBallotRejected = errors.New("election: ballot validity proof rejected")

// ErrTallyMismatch is raised when the decrypted tally cannot be backed
// by a valid r-th-residue witness, indicating corrupted parameters or a
// bug in the homomorphic combine step.
var ErrTallyMismatch = errors.New("election: tally residue extraction failed")

// ErrTallyProofRejected is raised when the freshly generated tally proof
// fails its own verification, which should never happen for an honestly
// run election and indicates an internal consistency bug.
var ErrTallyProofRejected = errors.New("election: tally proof failed self-verification")

// Voter is a single participant casting one ballot.
type Voter struct {
	ID        uuid.UUID
	Plaintext uint64
}

// Ballot is a cast, individually-verifiable vote.
type Ballot struct {
	ID            uuid.UUID
	VoterID       uuid.UUID
	Ciphertext    *benaloh.Ciphertext
	ValidityProof *ballot.Proof
}

// Receipt is the content-addressed acknowledgment a voter can use to
// confirm their ballot made it onto the bulletin board unmodified.
type Receipt struct {
	BallotID uuid.UUID
	Digest   multihash.Multihash
}

// Result is everything a verifier needs to check an election's outcome
// without trusting the authority.
type Result struct {
	PK              *keygen.PublicKey
	Tally           uint64
	TallyProof      *nthresidue.Proof
	TallyStatement  *saferith.Nat
	ConsonanceBatch consonance.Batch
	Ballots         []Ballot
	Receipts        []Receipt
	AuditEntries    []auditlog.Entry
	AuditHead       [32]byte
}

type ballotRecord struct {
	BallotID string
	VoterID  string
	Omega    []byte
}

// Run executes one full election: parameter and key generation, the
// consonance warmup, ballot casting with validity proofs, tallying, and
// the tally's r-th-residue proof.
func Run(rnd io.Reader, cfg *config.Config) (*Result, error) {
	chain := auditlog.NewChain()

	logging.Logger.WithFields(map[string]interface{}{
		"ring_bits": cfg.RingBits, "p_bits": cfg.PBits, "q_bits": cfg.QBits,
	}).Info("generating consonant parameters")

	p, err := sample.GenerateParams(rnd, cfg.RingBits, cfg.PBits, cfg.QBits, cfg.MillerRabinIterations, cfg.PGenMaxAttempts)
	if err != nil {
		return nil, errors.WrapPrefix(err, "election: PGen", 0)
	}
	chain.Append("params", encode(struct{ R, P, Q []byte }{p.R.Big().Bytes(), p.P.Big().Bytes(), p.Q.Big().Bytes()}))

	pk, sk, err := keygen.GenerateKeys(rnd, p, cfg.KeyGenMaxAttempts)
	if err != nil {
		return nil, errors.WrapPrefix(err, "election: KeyGen", 0)
	}
	chain.Append("publickey", encode(struct{ N, R, Y []byte }{
		pk.N.Modulus.Nat().Big().Bytes(), pk.R.Big().Bytes(), pk.Y.Big().Bytes(),
	}))

	logging.Logger.WithField("rounds", cfg.ConsonanceRounds).Info("running consonance check")
	consonanceBatch, err := consonance.RunBatch(rnd, cfg.ConsonanceRounds, pk, sk, benaloh.ScanSolver{})
	if err != nil {
		return nil, errors.WrapPrefix(err, "election: consonance check", 0)
	}
	chain.Append("consonance", encode(struct{ Rounds int }{len(consonanceBatch)}))

	one := new(saferith.Nat).SetUint64(1)
	product := &benaloh.Ciphertext{C: one}

	ballots := make([]Ballot, 0, len(cfg.Voters))
	receipts := make([]Receipt, 0, len(cfg.Voters))

	for _, plaintext := range cfg.Voters {
		voterID := uuid.New()
		ballotID := uuid.New()
		log := logging.WithVoter(voterID.String())

		m := new(saferith.Nat).SetUint64(plaintext)
		ct, u, err := benaloh.EncryptWithWitness(rnd, pk, m)
		if err != nil {
			return nil, errors.WrapPrefix(err, "election: encrypt ballot", 0)
		}

		vProof, err := ballot.NewProof(rnd, cfg.BallotProofCapsules, ballot.Public{PK: pk, Omega: ct.C}, ballot.Private{C: plaintext, U: u})
		if err != nil {
			return nil, errors.WrapPrefix(err, "election: ballot proof", 0)
		}
		if !vProof.Verify(ballot.Public{PK: pk, Omega: ct.C}) {
			log.Error("ballot validity proof rejected")
			return nil, errors.Wrap(ErrBallotRejected, 0)
		}

		b := Ballot{ID: ballotID, VoterID: voterID, Ciphertext: ct, ValidityProof: vProof}
		ballots = append(ballots, b)

		record := encode(ballotRecord{BallotID: ballotID.String(), VoterID: voterID.String(), Omega: ct.C.Big().Bytes()})
		digest, err := multihash.Sum(record, multihash.SHA2_256, -1)
		if err != nil {
			return nil, errors.WrapPrefix(err, "election: hashing receipt", 0)
		}
		receipts = append(receipts, Receipt{BallotID: ballotID, Digest: digest})
		chain.Append("ballot:"+ballotID.String(), record)

		logging.WithBallot(ballotID.String()).WithField("voter", voterID.String()).Info("ballot cast and verified")

		product = benaloh.Combine(pk, product, ct)
	}

	tallyNat, err := benaloh.Decrypt(sk, product, benaloh.ScanSolver{})
	if err != nil {
		return nil, errors.WrapPrefix(err, "election: tally decryption", 0)
	}
	tally := tallyNat.Big().Uint64()

	ytally := arith.PowMod(pk.Y, tallyNat, pk.N)
	ytallyInv, err := arith.InvMod(ytally, pk.N)
	if err != nil {
		return nil, errors.WrapPrefix(err, "election: inverting y^tally", 0)
	}
	statement := arith.MulMod(product.C, ytallyInv, pk.N)

	witness, ok := benaloh.RthRoot(sk, statement)
	if !ok {
		return nil, errors.Wrap(ErrTallyMismatch, 0)
	}

	tallyProof := nthresidue.NewProof(rnd, nthresidue.Public{N: pk.N, R: pk.R, Z: statement}, nthresidue.Private{X: witness})
	if !tallyProof.Verify(nthresidue.Public{N: pk.N, R: pk.R, Z: statement}) {
		return nil, errors.Wrap(ErrTallyProofRejected, 0)
	}
	chain.Append("tally", encode(struct {
		Tally     uint64
		Statement []byte
	}{tally, statement.Big().Bytes()}))

	logging.Logger.WithField("tally", tally).Info("election complete")

	return &Result{
		PK:              pk,
		Tally:           tally,
		TallyProof:      tallyProof,
		TallyStatement:  statement,
		ConsonanceBatch: consonanceBatch,
		Ballots:         ballots,
		Receipts:        receipts,
		AuditEntries:    chain.Entries(),
		AuditHead:       chain.Head(),
	}, nil
}

func encode(v interface{}) []byte {
	data, err := cbor.Marshal(v)
	if err != nil {
		panic("election: cbor encoding failure: " + err.Error())
	}
	return data
}
