package store

import (
	"encoding/base32"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding)
// taken from a random v4 UUID. 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(u[:5]))
	return prefix + "-" + suffix, nil
}

// NewID returns an unused id with the given prefix ("task", "list").
func (db *DB) NewID(prefix string) (string, error) {
	for i := 0; i < 16; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			return "", err
		}
		if !idExists(db, id) {
			return id, nil
		}
	}
	return "", errors.New("unable to allocate unique id")
}

func idExists(db *DB, id string) bool {
	if db == nil {
		return false
	}
	for _, l := range db.Lists {
		if l.ID == id {
			return true
		}
	}
	for _, t := range db.Tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}
