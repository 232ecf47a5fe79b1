// Package content is the read-only map from content id to roster composition
// rules. Like the template repository it is immutable after initialization;
// runtime immutability buys lock-free reads on the request hot path.
package content

import (
	"botpool/internal/model"
	"botpool/pkg/constants"
	"botpool/pkg/outcome"
)

type key struct {
	kind constants.ContentKind
	id   uint32
}

// DB content requirement database
type DB struct {
	requirements map[key]*model.Requirement
}

// NewDB builds the database from the built-in content tables
func NewDB() *DB {
	return NewDBWith(builtinRequirements)
}

// NewDBWith builds a database from an explicit requirement list. Used by
// tests and by hosts with custom content tables; the list is copied, the DB
// never mutates afterwards.
func NewDBWith(reqs []model.Requirement) *DB {
	db := &DB{requirements: make(map[key]*model.Requirement, len(reqs))}
	for i := range reqs {
		r := reqs[i]
		db.requirements[key{r.Kind, r.ContentID}] = &r
	}
	return db
}

// Get looks up the requirement for a (kind, content-id) pair
func (db *DB) Get(kind constants.ContentKind, contentID uint32) (*model.Requirement, error) {
	r, ok := db.requirements[key{kind, contentID}]
	if !ok {
		return nil, outcome.Wrapf(outcome.ErrUnknownContent, "%s content %d", kind, contentID)
	}
	return r, nil
}

// Count number of known content records
func (db *DB) Count() int {
	return len(db.requirements)
}
