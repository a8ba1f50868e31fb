package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Source file names looked up by Import.
const (
	DoctorsFile              = "doctors.csv"
	SubjectsFile             = "subjects.csv"
	ListingsFile             = "listings.csv"
	ListingProfessionalsFile = "listing_professionals.csv"
)

var csvSources = []string{DoctorsFile, SubjectsFile, ListingsFile, ListingProfessionalsFile}

// StepReport counts the outcome of one CSV file.
type StepReport struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Errors   int `json:"errors"`
}

func (s StepReport) String() string {
	return fmt.Sprintf("%d created, %d existing, %d errors", s.Created, s.Existing, s.Errors)
}

// CSVImportReport summarises a full CSV import.
type CSVImportReport struct {
	Missing       []string   `json:"missing,omitempty"`
	Doctors       StepReport `json:"doctors"`
	Subjects      StepReport `json:"subjects"`
	Listings      StepReport `json:"listings"`
	Professionals StepReport `json:"professionals"`
}

// CSVImporter loads directory rows from CSV files and rewires foreign keys through IDMaps.
// Every row is written in its own transaction; a bad row never stops the file.
type CSVImporter struct {
	tx       Transactor
	repos    Repositories
	resetter *Resetter
	log      *logrus.Logger
}

func NewCSVImporter(tx Transactor, repos Repositories, resetter *Resetter, log *logrus.Logger) *CSVImporter {
	return &CSVImporter{tx: tx, repos: repos, resetter: resetter, log: log}
}

// CheckFiles returns the source files missing from dir.
func (c *CSVImporter) CheckFiles(dir string) []string {
	var missing []string
	for _, name := range csvSources {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			c.log.Warnf("Missing CSV file: %s", name)
			missing = append(missing, name)
			continue
		}
		c.log.Infof("Found CSV file: %s", name)
	}
	return missing
}

// Import clears the directory and loads doctors, subjects, listings and
// listing professionals from dir, stopping when a step maps no rows.
func (c *CSVImporter) Import(ctx context.Context, dir string) (*CSVImportReport, error) {
	report := &CSVImportReport{}

	if missing := c.CheckFiles(dir); len(missing) > 0 {
		report.Missing = missing
		return report, fmt.Errorf("%w: %s", ErrSourceMissing, strings.Join(missing, ", "))
	}

	if err := c.tx.Transaction(ctx, func(tx *gorm.DB) error {
		return c.resetter.Reset(ctx, tx)
	}); err != nil {
		return report, err
	}

	doctorIDs, step, err := c.ImportDoctors(ctx, filepath.Join(dir, DoctorsFile))
	report.Doctors = step
	if err := stepFailed("doctors", doctorIDs, err); err != nil {
		return report, err
	}

	subjectIDs, step, err := c.ImportSubjects(ctx, filepath.Join(dir, SubjectsFile))
	report.Subjects = step
	if err := stepFailed("subjects", subjectIDs, err); err != nil {
		return report, err
	}

	listingIDs, step, err := c.ImportListings(ctx, filepath.Join(dir, ListingsFile), doctorIDs)
	report.Listings = step
	if err := stepFailed("listings", listingIDs, err); err != nil {
		return report, err
	}

	step, err = c.ImportListingProfessionals(ctx, filepath.Join(dir, ListingProfessionalsFile), listingIDs, subjectIDs)
	report.Professionals = step
	if err != nil {
		return report, err
	}

	return report, nil
}

func stepFailed(name string, ids IDMap, err error) error {
	if err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyMapping, name)
	}
	return nil
}

// ImportDoctors get-or-creates doctors by email.
func (c *CSVImporter) ImportDoctors(ctx context.Context, path string) (IDMap, StepReport, error) {
	ids := IDMap{}
	var report StepReport

	table, err := c.open(path, "id", "name", "email")
	if err != nil {
		return ids, report, err
	}
	report.Errors += len(table.broken)

	for _, row := range table.rows {
		sourceID, doctor, err := doctorFromRow(row)
		if err != nil {
			c.rowFailed(&report, "doctor", err)
			continue
		}

		var created bool
		err = c.tx.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			created, err = c.repos.Doctor.FirstOrCreateByEmail(tx, doctor)
			return err
		})
		if err != nil {
			c.rowFailed(&report, "doctor", fmt.Errorf("line %d: %w", row.line, err))
			continue
		}

		ids[sourceID] = doctor.ID
		c.counted(&report, created, "Doctor %s (id %d)", doctor.Name, doctor.ID)
	}

	c.finish("doctors", report, ids)
	return ids, report, nil
}

// ImportSubjects get-or-creates subjects by name.
func (c *CSVImporter) ImportSubjects(ctx context.Context, path string) (IDMap, StepReport, error) {
	ids := IDMap{}
	var report StepReport

	table, err := c.open(path, "id", "name")
	if err != nil {
		return ids, report, err
	}
	report.Errors += len(table.broken)

	for _, row := range table.rows {
		sourceID, err := row.requiredInt("id")
		if err != nil {
			c.rowFailed(&report, "subject", err)
			continue
		}
		name, err := row.required("name")
		if err != nil {
			c.rowFailed(&report, "subject", err)
			continue
		}

		var subject *entity.Subject
		var created bool
		err = c.tx.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			subject, created, err = c.repos.Subject.FirstOrCreateByName(tx, name)
			return err
		})
		if err != nil {
			c.rowFailed(&report, "subject", fmt.Errorf("line %d: %w", row.line, err))
			continue
		}

		ids[sourceID] = subject.ID
		c.counted(&report, created, "Subject %s (id %d)", subject.Name, subject.ID)
	}

	c.finish("subjects", report, ids)
	return ids, report, nil
}

// ImportListings get-or-creates listings by title and resolved doctor.
// Rows whose doctor_id has no mapping are skipped and counted as errors.
func (c *CSVImporter) ImportListings(ctx context.Context, path string, doctorIDs IDMap) (IDMap, StepReport, error) {
	ids := IDMap{}
	var report StepReport

	table, err := c.open(path, "id", "doctor_id", "title")
	if err != nil {
		return ids, report, err
	}
	report.Errors += len(table.broken)

	for _, row := range table.rows {
		sourceID, listing, services, err := listingFromRow(row)
		if err != nil {
			c.rowFailed(&report, "listing", err)
			continue
		}

		sourceDoctorID := listing.DoctorID
		doctorID, ok := doctorIDs.Resolve(sourceDoctorID)
		if !ok {
			c.rowFailed(&report, "listing", fmt.Errorf("line %d: no doctor mapped for id %d (listing %q)", row.line, sourceDoctorID, listing.Title))
			continue
		}
		listing.DoctorID = doctorID

		var stored *entity.Listing
		var created bool
		err = c.tx.Transaction(ctx, func(tx *gorm.DB) error {
			existing, err := c.repos.Listing.FindByTitleAndDoctor(tx, listing.Title, doctorID)
			if err != nil {
				return err
			}
			if existing != nil {
				stored = existing
			} else {
				if err := c.repos.Listing.Create(tx, listing); err != nil {
					return err
				}
				stored, created = listing, true
			}
			return attachServices(tx, c.repos, stored.ID, services)
		})
		if err != nil {
			c.rowFailed(&report, "listing", fmt.Errorf("line %d: %w", row.line, err))
			continue
		}

		ids[sourceID] = stored.ID
		c.counted(&report, created, "Listing %s (doctor id %d)", stored.Title, doctorID)
	}

	c.finish("listings", report, ids)
	return ids, report, nil
}

// ImportListingProfessionals links listings to subjects through both id maps.
// A link that already exists counts as Existing.
func (c *CSVImporter) ImportListingProfessionals(ctx context.Context, path string, listingIDs, subjectIDs IDMap) (StepReport, error) {
	var report StepReport

	table, err := c.open(path, "listing_id", "subject_id")
	if err != nil {
		return report, err
	}
	report.Errors += len(table.broken)

	for _, row := range table.rows {
		sourceListing, err := row.requiredInt("listing_id")
		if err != nil {
			c.rowFailed(&report, "listing professional", err)
			continue
		}
		sourceSubject, err := row.requiredInt("subject_id")
		if err != nil {
			c.rowFailed(&report, "listing professional", err)
			continue
		}

		listingID, listingOK := listingIDs.Resolve(sourceListing)
		subjectID, subjectOK := subjectIDs.Resolve(sourceSubject)
		if !listingOK || !subjectOK {
			var missing []string
			if !listingOK {
				missing = append(missing, fmt.Sprintf("listing id %d", sourceListing))
			}
			if !subjectOK {
				missing = append(missing, fmt.Sprintf("subject id %d", sourceSubject))
			}
			c.rowFailed(&report, "listing professional", fmt.Errorf("line %d: no mapping for %s", row.line, strings.Join(missing, ", ")))
			continue
		}

		var added bool
		err = c.tx.Transaction(ctx, func(tx *gorm.DB) error {
			var err error
			added, err = c.repos.Listing.AddProfessional(tx, listingID, subjectID)
			return err
		})
		if err != nil {
			c.rowFailed(&report, "listing professional", fmt.Errorf("line %d: %w", row.line, err))
			continue
		}

		c.counted(&report, added, "Listing %d - subject %d", listingID, subjectID)
	}

	c.finish("listing_professionals", report, nil)
	return report, nil
}

func (c *CSVImporter) open(path string, required ...string) (*csvTable, error) {
	c.log.Infof("Importing %s", path)
	table, err := loadCSV(path)
	if err != nil {
		if errors.Is(err, ErrSourceMissing) {
			c.log.Warnf("File not found: %s", path)
		}
		return nil, err
	}
	if err := table.require(required...); err != nil {
		c.log.Warnf("Failed to import %s: %+v", path, err)
		return nil, err
	}
	for _, err := range table.broken {
		c.log.Warnf("Skipping unreadable row in %s: %v", path, err)
	}
	return table, nil
}

func (c *CSVImporter) rowFailed(report *StepReport, kind string, err error) {
	report.Errors++
	c.log.Warnf("Skipping %s row: %v", kind, err)
}

func (c *CSVImporter) counted(report *StepReport, created bool, format string, args ...any) {
	if created {
		report.Created++
		c.log.Infof("Created "+format, args...)
		return
	}
	report.Existing++
	c.log.Infof("Exists "+format, args...)
}

func (c *CSVImporter) finish(entityName string, report StepReport, ids IDMap) {
	metrics.ObserveImport("csv", entityName, "created", report.Created)
	metrics.ObserveImport("csv", entityName, "existing", report.Existing)
	metrics.ObserveImport("csv", entityName, "skipped", report.Errors)

	if report.Errors > 0 {
		c.log.Warnf("Imported %s: %s", entityName, report)
	} else {
		c.log.Infof("Imported %s: %s", entityName, report)
	}
	if ids != nil {
		c.log.Debugf("%s id map: %v", entityName, map[int64]int64(ids))
	}
}

func doctorFromRow(row csvRow) (int64, *entity.Doctor, error) {
	sourceID, err := row.requiredInt("id")
	if err != nil {
		return 0, nil, err
	}
	name, err := row.required("name")
	if err != nil {
		return 0, nil, err
	}
	email, err := row.required("email")
	if err != nil {
		return 0, nil, err
	}
	hireDate, err := row.timestamp("hire_date")
	if err != nil {
		return 0, nil, err
	}

	return sourceID, &entity.Doctor{
		Name:        name,
		Email:       email,
		Description: row.str("description", ""),
		Phone:       row.str("phone", "00000000"),
		Photo:       row.str("photo", ""),
		IsMVP:       row.boolean("is_mvp", true),
		HireDate:    hireDate,
	}, nil
}

// listingFromRow parses a listing row. DoctorID holds the source id until resolved.
func listingFromRow(row csvRow) (int64, *entity.Listing, []string, error) {
	sourceID, err := row.requiredInt("id")
	if err != nil {
		return 0, nil, nil, err
	}
	doctorID, err := row.requiredInt("doctor_id")
	if err != nil {
		return 0, nil, nil, err
	}
	title, err := row.required("title")
	if err != nil {
		return 0, nil, nil, err
	}

	listing := &entity.Listing{
		DoctorID:    doctorID,
		Title:       title,
		Address:     row.str("address", ""),
		District:    row.str("district", ""),
		Description: row.str("description", ""),
		RoomType:    row.str("room_type", ""),
		Rooms:       row.str("rooms", "1"),
		PhotoMain:   row.str("photo_main", ""),
		IsPublished: row.boolean("is_published", true),
	}
	if listing.Service, err = row.integer("service", 0); err != nil {
		return 0, nil, nil, err
	}
	if listing.Screen, err = row.integer("screen", 0); err != nil {
		return 0, nil, nil, err
	}
	if listing.Professional, err = row.integer("professional", 0); err != nil {
		return 0, nil, nil, err
	}

	listDate, err := row.timestamp("list_date")
	if err != nil {
		return 0, nil, nil, err
	}
	if listDate != nil {
		listing.ListDate = *listDate
	} else {
		listing.ListDate = timeNow()
	}

	var services []string
	for _, name := range strings.Split(row.str("services", ""), "|") {
		if name = strings.TrimSpace(name); name != "" {
			services = append(services, name)
		}
	}

	return sourceID, listing, services, nil
}

// attachServices tags a listing, creating tags on first use.
func attachServices(tx *gorm.DB, repos Repositories, listingID int64, services []string) error {
	for _, name := range services {
		tag, _, err := repos.Tag.FirstOrCreateByName(tx, name)
		if err != nil {
			return fmt.Errorf("create tag %q: %w", name, err)
		}
		if _, err := repos.Listing.AddService(tx, listingID, tag.ID); err != nil {
			return fmt.Errorf("tag listing %d with %q: %w", listingID, name, err)
		}
	}
	return nil
}
