// Package dataset populates the directory and moves it in and out of CSV and JSON files.
package dataset

import (
	"context"
	"errors"
	"time"

	"clinic-directory/internal/domain/repository"

	"gorm.io/gorm"
)

var (
	// ErrSourceMissing is wrapped when an input file does not exist.
	ErrSourceMissing = errors.New("source file not found")
	// ErrMissingColumns is wrapped when a CSV header lacks required columns.
	ErrMissingColumns = errors.New("required columns missing")
	// ErrEmptyMapping aborts a CSV import when a step produced no id mappings.
	ErrEmptyMapping = errors.New("import step produced no rows")
)

// Transactor runs fn inside one database transaction.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return gormTransactor{db: db}
}

func (t gormTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

// Repositories groups the repositories the tooling writes through.
type Repositories struct {
	Doctor  repository.DoctorRepository
	Subject repository.SubjectRepository
	Tag     repository.TagRepository
	Listing repository.ListingRepository
	Data    repository.DataRepository
}

// IDMap maps identifiers found in an import source to the ids assigned by storage.
// It lives only for the duration of one import run.
type IDMap map[int64]int64

// Resolve returns the storage id recorded for a source id.
func (m IDMap) Resolve(sourceID int64) (int64, bool) {
	id, ok := m[sourceID]
	return id, ok
}

// timeNow is replaced in tests.
var timeNow = time.Now
