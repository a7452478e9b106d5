// Package auditlog provides a tamper-evident hash chain over the
// election driver's bulletin board. It is a separate integrity concern
// from the Fiat-Shamir transcript hash in internal/hash: entries here
// are chained the way a append-only log is, not reduced to a protocol
// challenge.
package auditlog

import (
	"github.com/zeebo/blake3"
)

// Entry is one link in the chain: the digest of some bulletin-board
// record, mixed with the digest of the entry before it.
type Entry struct {
	Label  string
	Digest [32]byte
}

// Chain accumulates entries and exposes the running head digest.
type Chain struct {
	entries []Entry
	head    [32]byte
}

// NewChain starts an empty chain with an all-zero genesis head.
func NewChain() *Chain {
	return &Chain{}
}

// Append hashes label and data together with the current head, and
// advances the chain to the resulting digest.
func (c *Chain) Append(label string, data []byte) Entry {
	h := blake3.New()
	_, _ = h.Write(c.head[:])
	_, _ = h.Write([]byte(label))
	_, _ = h.Write(data)

	var digest [32]byte
	copy(digest[:], h.Sum(nil))

	entry := Entry{Label: label, Digest: digest}
	c.entries = append(c.entries, entry)
	c.head = digest
	return entry
}

// Head returns the current chain head.
func (c *Chain) Head() [32]byte {
	return c.head
}

// Entries returns the ordered entries appended so far.
func (c *Chain) Entries() []Entry {
	return c.entries
}

// Verify recomputes the chain from scratch given the same
// (label, data) pairs in order, and reports whether the recomputed head
// matches the chain's current head.
func Verify(pairs []struct {
	Label string
	Data  []byte
}, want [32]byte) bool {
	c := NewChain()
	for _, p := range pairs {
		c.Append(p.Label, p.Data)
	}
	return c.Head() == want
}
