// Package idgen produces opaque identifiers for new records.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a value never returned before during the process lifetime.
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// NewUUID returns the default generator used by the stores.
func NewUUID() UUID {
	return UUID{}
}

func (UUID) NewID() string {
	return uuid.New().String()
}

// Sequence hands out "<prefix>-1", "<prefix>-2", ... and is safe for concurrent use.
// Tests use it to get predictable ids.
type Sequence struct {
	prefix string
	next   atomic.Uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.next.Add(1))
}
