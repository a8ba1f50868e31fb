package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Export file names written by CSVExporter.
const (
	DoctorsExportFile  = "doctors_export.csv"
	SubjectsExportFile = "subjects_export.csv"
	ListingsExportFile = "listings_export.csv"
)

var (
	doctorsExportHeader  = []string{"ID", "姓名", "邮箱", "电话", "描述", "MVP", "雇佣日期"}
	subjectsExportHeader = []string{"ID", "科目名称"}
	listingsExportHeader = []string{"ID", "标题", "医生", "地址", "区域", "房间类型", "是否发布"}
)

// CSVExportReport lists the written files and their row counts.
type CSVExportReport struct {
	Files    []string `json:"files"`
	Doctors  int      `json:"doctors"`
	Subjects int      `json:"subjects"`
	Listings int      `json:"listings"`
}

// CSVExporter writes spreadsheet-friendly CSV files: UTF-8 with BOM, 是/否 booleans.
type CSVExporter struct {
	repos Repositories
	log   *logrus.Logger
}

func NewCSVExporter(repos Repositories, log *logrus.Logger) *CSVExporter {
	return &CSVExporter{repos: repos, log: log}
}

// Export writes the three export files into dir, creating it when needed.
func (e *CSVExporter) Export(ctx context.Context, tx *gorm.DB, dir string) (*CSVExportReport, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	report := &CSVExportReport{}

	doctors, err := e.repos.Doctor.FindAll(tx)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	rows := make([][]string, 0, len(doctors))
	for _, d := range doctors {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.Name,
			d.Email,
			d.Phone,
			d.Description,
			yesNo(d.IsMVP),
			formatDate(d.HireDate),
		})
	}
	if err := e.write(filepath.Join(dir, DoctorsExportFile), doctorsExportHeader, rows, report); err != nil {
		return nil, err
	}
	report.Doctors = len(rows)

	subjects, err := e.repos.Subject.FindAll(tx)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	rows = make([][]string, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name})
	}
	if err := e.write(filepath.Join(dir, SubjectsExportFile), subjectsExportHeader, rows, report); err != nil {
		return nil, err
	}
	report.Subjects = len(rows)

	listings, err := e.repos.Listing.FindAll(tx, nil)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	rows = make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{
			strconv.FormatInt(l.ID, 10),
			l.Title,
			l.Doctor.Name,
			l.Address,
			l.District,
			l.RoomType,
			yesNo(l.IsPublished),
		})
	}
	if err := e.write(filepath.Join(dir, ListingsExportFile), listingsExportHeader, rows, report); err != nil {
		return nil, err
	}
	report.Listings = len(rows)

	return report, nil
}

func (e *CSVExporter) write(path string, header []string, rows [][]string, report *CSVExportReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	report.Files = append(report.Files, path)
	e.log.Infof("Exported %d rows to %s", len(rows), path)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
