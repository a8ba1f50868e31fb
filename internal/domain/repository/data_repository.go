package repository

import "gorm.io/gorm"

// DataRepository holds whole-table maintenance used by the data tooling.
type DataRepository interface {
	// DeleteAll removes every directory row, children before parents.
	DeleteAll(db *gorm.DB) error
	// SyncSequences moves id sequences past the highest stored id.
	SyncSequences(db *gorm.DB) error
}
