package dataset

import (
	"context"
	"fmt"

	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Manager runs the tooling operations, each inside its own transaction
// unless noted, and records an audit entry for every write.
type Manager struct {
	tx        Transactor
	repos     Repositories
	log       *logrus.Logger
	audit     service.AuditService
	cache     service.ListingCache
	resetter  *Resetter
	generator *Generator
	snapshot  *Snapshot
	importer  *CSVImporter
	exporter  *CSVExporter
}

func NewManager(
	tx Transactor,
	repos Repositories,
	log *logrus.Logger,
	audit service.AuditService,
	cache service.ListingCache,
	seed int64,
) *Manager {
	resetter := NewResetter(repos.Data, log)
	return &Manager{
		tx:        tx,
		repos:     repos,
		log:       log,
		audit:     audit,
		cache:     cache,
		resetter:  resetter,
		generator: NewGenerator(repos, log, seed),
		snapshot:  NewSnapshot(repos, resetter, log),
		importer:  NewCSVImporter(tx, repos, resetter, log),
		exporter:  NewCSVExporter(repos, log),
	}
}

// Clean deletes every directory row.
func (m *Manager) Clean(ctx context.Context) error {
	err := m.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := m.resetter.Reset(ctx, tx); err != nil {
			return err
		}
		return m.record(ctx, tx, entity.AuditActionDataReset, nil)
	})
	if err != nil {
		return err
	}
	m.invalidate(ctx)
	return nil
}

// Generate adds the sample directory without clearing first.
func (m *Manager) Generate(ctx context.Context) (*GenerateReport, error) {
	var report *GenerateReport
	err := m.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if report, err = m.generator.Generate(ctx, tx); err != nil {
			return err
		}
		return m.record(ctx, tx, entity.AuditActionDataSeed, entity.JSON{"reset": false, "report": report})
	})
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx)
	return report, nil
}

// Seed clears and regenerates the directory in a single transaction,
// so a failure leaves the previous data untouched.
func (m *Manager) Seed(ctx context.Context) (*GenerateReport, error) {
	var report *GenerateReport
	err := m.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := m.resetter.Reset(ctx, tx); err != nil {
			return err
		}
		var err error
		if report, err = m.generator.Generate(ctx, tx); err != nil {
			return err
		}
		return m.record(ctx, tx, entity.AuditActionDataSeed, entity.JSON{"reset": true, "report": report})
	})
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx)
	return report, nil
}

// ExportJSON writes a snapshot of the directory to path.
func (m *Manager) ExportJSON(ctx context.Context, path string) (*Document, error) {
	var doc *Document
	err := m.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		doc, err = m.snapshot.Build(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := WriteFile(path, doc); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}
	m.log.Infof("Exported %d subjects, %d doctors, %d listings to %s",
		len(doc.Subjects), len(doc.Doctors), len(doc.Listings), path)
	return doc, nil
}

// ImportJSON replaces the directory with the snapshot at path in one transaction.
// A missing file returns an error wrapping ErrSourceMissing and changes nothing.
func (m *Manager) ImportJSON(ctx context.Context, path string) (*SnapshotReport, error) {
	doc, err := ReadFile(path)
	if err != nil {
		m.log.Warnf("Failed to read snapshot: %+v", err)
		return nil, err
	}

	var report *SnapshotReport
	err = m.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		if report, err = m.snapshot.Restore(ctx, tx, doc); err != nil {
			return err
		}
		return m.record(ctx, tx, entity.AuditActionImportJSON, entity.JSON{"file": path, "report": report})
	})
	if err != nil {
		return nil, err
	}
	m.invalidate(ctx)
	m.log.Infof("Imported snapshot %s", path)
	return report, nil
}

// ImportCSV runs the CSV pipeline over dir. Rows are committed one by one,
// so a failed run keeps the rows imported before the failure.
func (m *Manager) ImportCSV(ctx context.Context, dir string) (*CSVImportReport, error) {
	report, importErr := m.importer.Import(ctx, dir)
	if len(report.Missing) == 0 {
		metadata := entity.JSON{"dir": dir, "report": report}
		if importErr != nil {
			metadata["error"] = importErr.Error()
		}
		if err := m.tx.Transaction(ctx, func(tx *gorm.DB) error {
			return m.record(ctx, tx, entity.AuditActionImportCSV, metadata)
		}); err != nil {
			m.log.Warnf("Failed to create audit log: %+v", err)
		}
		m.invalidate(ctx)
	}
	return report, importErr
}

// ExportCSV writes the spreadsheet exports into dir.
func (m *Manager) ExportCSV(ctx context.Context, dir string) (*CSVExportReport, error) {
	var report *CSVExportReport
	err := m.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		report, err = m.exporter.Export(ctx, tx, dir)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Statistics reports counts, score averages and the most recent listings.
func (m *Manager) Statistics(ctx context.Context) (*Statistics, error) {
	var stats *Statistics
	err := m.tx.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		stats, err = CollectStatistics(ctx, tx, m.repos)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// FullPipeline reseeds the directory, exports it to path and returns fresh statistics.
func (m *Manager) FullPipeline(ctx context.Context, path string) (*Statistics, error) {
	if _, err := m.Seed(ctx); err != nil {
		return nil, err
	}
	if _, err := m.ExportJSON(ctx, path); err != nil {
		return nil, err
	}
	return m.Statistics(ctx)
}

func (m *Manager) record(ctx context.Context, tx *gorm.DB, action string, metadata entity.JSON) error {
	if m.audit == nil {
		return nil
	}
	if err := m.audit.LogEvent(ctx, tx, entity.AuditActorCLI, action, metadata); err != nil {
		// Don't fail the run for audit log errors
		m.log.Warnf("Failed to create audit log: %+v", err)
	}
	return nil
}

func (m *Manager) invalidate(ctx context.Context) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Invalidate(ctx); err != nil {
		m.log.Warnf("Failed to invalidate listing cache: %+v", err)
	}
}
