// Package idx generates prefixed, lexicographically sortable identifiers
// ("pay_01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV") for ledger and audit rows.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Known prefixes.
const (
	PrefixPayment = "pay"
	PrefixAudit   = "aud"
)

const sep = "_"

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a new ID with the given prefix using the current UTC time.
func New(prefix string) ID {
	return NewAt(prefix, time.Now().UTC())
}

// NewAt generates an ID at the provided time, useful for tests and for
// backfilling rows with a known creation time.
func NewAt(prefix string, t time.Time) ID {
	mu.Lock()
	u := ulid.MustNew(ulid.Timestamp(t), entropy)
	mu.Unlock()

	if prefix == "" {
		return ID(u.String())
	}
	return ID(prefix + sep + u.String())
}

// String returns the canonical string form.
func (id ID) String() string { return string(id) }
