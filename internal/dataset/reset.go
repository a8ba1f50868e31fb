package dataset

import (
	"context"

	"clinic-directory/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Resetter empties every directory table.
type Resetter struct {
	data repository.DataRepository
	log  *logrus.Logger
}

func NewResetter(data repository.DataRepository, log *logrus.Logger) *Resetter {
	return &Resetter{data: data, log: log}
}

// Reset deletes join rows, then listings, subjects, doctors and tags.
func (r *Resetter) Reset(ctx context.Context, tx *gorm.DB) error {
	r.log.Info("Clearing existing data")
	if err := r.data.DeleteAll(tx); err != nil {
		r.log.Warnf("Failed to clear data: %+v", err)
		return err
	}
	r.log.Info("Existing data cleared")
	return nil
}
