package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable by
// creation time, which the boards rely on for newest-first ordering and
// previous/next navigation.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
