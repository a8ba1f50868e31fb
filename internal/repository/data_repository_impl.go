package repository

import (
	"fmt"

	domainRepo "clinic-directory/internal/domain/repository"

	"gorm.io/gorm"
)

// resetOrder lists tables children first so no delete trips a foreign key.
var resetOrder = []string{
	"listing_services",
	"listing_professionals",
	"listings",
	"subjects",
	"doctors",
	"tags",
}

var sequencedTables = []string{"doctors", "subjects", "listings", "tags"}

type dataRepository struct{}

func NewDataRepository() domainRepo.DataRepository {
	return &dataRepository{}
}

func (r *dataRepository) DeleteAll(db *gorm.DB) error {
	for _, table := range resetOrder {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func (r *dataRepository) SyncSequences(db *gorm.DB) error {
	for _, table := range sequencedTables {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)",
			table,
		)
		if err := db.Exec(query).Error; err != nil {
			return fmt.Errorf("sync %s sequence: %w", table, err)
		}
	}
	return nil
}
