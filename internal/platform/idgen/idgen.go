// Package idgen issues string identifiers for new records.
package idgen

import (
	"encoding/hex"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Hex produces 32 lowercase hex characters from a random (version 4) UUID.
type Hex struct{}

func NewHex() Hex { return Hex{} }

func (Hex) Next() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Sequence produces increasing decimal identifiers. It is safe for concurrent use.
type Sequence struct {
	last atomic.Int64
}

// NewSequence starts issuing at offset+1.
func NewSequence(offset int64) *Sequence {
	s := &Sequence{}
	s.last.Store(offset)
	return s
}

func (s *Sequence) Next() string {
	return strconv.FormatInt(s.last.Add(1), 10)
}
