package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"time"

	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultSnapshotFile is used when no snapshot path is given.
const DefaultSnapshotFile = "django_sample_data.json"

// Timestamp marshals as RFC 3339 and also parses ISO 8601 without a zone.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Document is the JSON snapshot layout.
type Document struct {
	ExportTime Timestamp       `json:"export_time"`
	Subjects   []SubjectRecord `json:"subjects"`
	Doctors    []DoctorRecord  `json:"doctors"`
	Listings   []ListingRecord `json:"listings"`
}

type SubjectRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DoctorRecord struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Photo       string     `json:"photo"`
	Description string     `json:"description"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	IsMVP       bool       `json:"is_mvp"`
	HireDate    *Timestamp `json:"hire_date"`
}

type ListingRecord struct {
	ID            int64     `json:"id"`
	DoctorID      int64     `json:"doctor_id"`
	Title         string    `json:"title"`
	Address       string    `json:"address"`
	District      string    `json:"district"`
	Description   string    `json:"description"`
	Service       int       `json:"service"`
	RoomType      string    `json:"room_type"`
	Screen        int       `json:"screen"`
	Professional  int       `json:"professional"`
	Rooms         string    `json:"rooms"`
	PhotoMain     string    `json:"photo_main"`
	IsPublished   bool      `json:"is_published"`
	ListDate      Timestamp `json:"list_date"`
	Professionals []int64   `json:"professionals"`
	Services      []string  `json:"services"`
}

// SnapshotReport counts the rows moved by an export or import.
type SnapshotReport struct {
	Subjects      int `json:"subjects"`
	Doctors       int `json:"doctors"`
	Listings      int `json:"listings"`
	Professionals int `json:"professionals"`
	Services      int `json:"services"`
	Skipped       int `json:"skipped"`
}

// Snapshot converts the directory to and from Document.
type Snapshot struct {
	repos    Repositories
	resetter *Resetter
	log      *logrus.Logger
}

func NewSnapshot(repos Repositories, resetter *Resetter, log *logrus.Logger) *Snapshot {
	return &Snapshot{repos: repos, resetter: resetter, log: log}
}

// Build reads every row through tx, ordered by id.
func (s *Snapshot) Build(ctx context.Context, tx *gorm.DB) (*Document, error) {
	subjects, err := s.repos.Subject.FindAll(tx)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	doctors, err := s.repos.Doctor.FindAll(tx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	listings, err := s.repos.Listing.FindAll(tx, nil)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })

	doc := &Document{
		ExportTime: Timestamp{timeNow()},
		Subjects:   make([]SubjectRecord, 0, len(subjects)),
		Doctors:    make([]DoctorRecord, 0, len(doctors)),
		Listings:   make([]ListingRecord, 0, len(listings)),
	}
	for _, sub := range subjects {
		doc.Subjects = append(doc.Subjects, SubjectRecord{ID: sub.ID, Name: sub.Name})
	}
	for _, d := range doctors {
		rec := DoctorRecord{
			ID:          d.ID,
			Name:        d.Name,
			Photo:       d.Photo,
			Description: d.Description,
			Phone:       d.Phone,
			Email:       d.Email,
			IsMVP:       d.IsMVP,
		}
		if d.HireDate != nil {
			rec.HireDate = &Timestamp{*d.HireDate}
		}
		doc.Doctors = append(doc.Doctors, rec)
	}
	for _, l := range listings {
		doc.Listings = append(doc.Listings, ListingRecord{
			ID:            l.ID,
			DoctorID:      l.DoctorID,
			Title:         l.Title,
			Address:       l.Address,
			District:      l.District,
			Description:   l.Description,
			Service:       l.Service,
			RoomType:      l.RoomType,
			Screen:        l.Screen,
			Professional:  l.Professional,
			Rooms:         l.Rooms,
			PhotoMain:     l.PhotoMain,
			IsPublished:   l.IsPublished,
			ListDate:      Timestamp{l.ListDate},
			Professionals: l.ProfessionalIDs(),
			Services:      l.ServiceNames(),
		})
	}
	return doc, nil
}

// Restore replaces the directory with doc through tx. Ids from the document are kept.
// Listings whose doctor is absent and professionals whose subject is absent are skipped.
func (s *Snapshot) Restore(ctx context.Context, tx *gorm.DB, doc *Document) (*SnapshotReport, error) {
	if err := s.resetter.Reset(ctx, tx); err != nil {
		return nil, err
	}
	report := &SnapshotReport{}

	subjectIDs := IDMap{}
	for _, rec := range doc.Subjects {
		subject := &entity.Subject{ID: rec.ID, Name: rec.Name}
		if err := s.repos.Subject.Create(tx, subject); err != nil {
			return nil, fmt.Errorf("insert subject %d: %w", rec.ID, err)
		}
		subjectIDs[rec.ID] = subject.ID
		report.Subjects++
	}

	doctorIDs := IDMap{}
	for _, rec := range doc.Doctors {
		doctor := &entity.Doctor{
			ID:          rec.ID,
			Name:        rec.Name,
			Photo:       rec.Photo,
			Description: rec.Description,
			Phone:       rec.Phone,
			Email:       rec.Email,
			IsMVP:       rec.IsMVP,
		}
		if rec.HireDate != nil {
			hired := rec.HireDate.Time
			doctor.HireDate = &hired
		}
		if err := s.repos.Doctor.Create(tx, doctor); err != nil {
			return nil, fmt.Errorf("insert doctor %d: %w", rec.ID, err)
		}
		doctorIDs[rec.ID] = doctor.ID
		report.Doctors++
	}

	for _, rec := range doc.Listings {
		doctorID, ok := doctorIDs.Resolve(rec.DoctorID)
		if !ok {
			s.log.Warnf("Skipping listing %d: doctor %d not in snapshot", rec.ID, rec.DoctorID)
			report.Skipped++
			continue
		}

		listing := &entity.Listing{
			ID:           rec.ID,
			DoctorID:     doctorID,
			Title:        rec.Title,
			Address:      rec.Address,
			District:     rec.District,
			Description:  rec.Description,
			Service:      rec.Service,
			RoomType:     rec.RoomType,
			Screen:       rec.Screen,
			Professional: rec.Professional,
			Rooms:        rec.Rooms,
			PhotoMain:    rec.PhotoMain,
			IsPublished:  rec.IsPublished,
			ListDate:     rec.ListDate.Time,
		}
		if listing.ListDate.IsZero() {
			listing.ListDate = timeNow()
		}
		if err := s.repos.Listing.Create(tx, listing); err != nil {
			return nil, fmt.Errorf("insert listing %d: %w", rec.ID, err)
		}
		report.Listings++

		for _, sourceSubject := range rec.Professionals {
			subjectID, ok := subjectIDs.Resolve(sourceSubject)
			if !ok {
				s.log.Warnf("Skipping professional %d of listing %d: subject not in snapshot", sourceSubject, rec.ID)
				report.Skipped++
				continue
			}
			added, err := s.repos.Listing.AddProfessional(tx, listing.ID, subjectID)
			if err != nil {
				return nil, fmt.Errorf("link listing %d to subject %d: %w", rec.ID, subjectID, err)
			}
			if added {
				report.Professionals++
			}
		}

		if err := attachServices(tx, s.repos, listing.ID, rec.Services); err != nil {
			return nil, err
		}
		report.Services += len(rec.Services)
	}

	if err := s.repos.Data.SyncSequences(tx); err != nil {
		return nil, fmt.Errorf("sync sequences: %w", err)
	}

	metrics.ObserveImport("json", "subjects", "created", report.Subjects)
	metrics.ObserveImport("json", "doctors", "created", report.Doctors)
	metrics.ObserveImport("json", "listings", "created", report.Listings)
	metrics.ObserveImport("json", "listings", "skipped", report.Skipped)
	return report, nil
}

// Encode writes doc as indented JSON with non-ASCII text kept verbatim.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode reads a snapshot document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &doc, nil
}

// ReadFile decodes the snapshot at path.
func ReadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, err
	}
	return Decode(bytes.NewReader(raw))
}

// WriteFile encodes doc to path, replacing any existing file.
func WriteFile(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
