package id

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID identifying one code issuance.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID whose timestamp component is t, so issuance IDs sort by issue time.
func NewAt(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
