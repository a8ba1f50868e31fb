package dataset

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"clinic-directory/internal/domain/entity"

	"github.com/Pallinder/go-randomdata"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	generatedDoctors  = 8
	generatedListings = 12
)

// SampleSubjects are the specialties created by the generator.
var SampleSubjects = []string{
	"心臟內科", "神經外科", "兒科", "婦產科", "眼科",
	"牙科", "皮膚科", "精神科", "復健科", "急診醫學科",
}

// SampleServices are the service tags the generator picks from.
var SampleServices = []string{
	"門診服務", "急診服務", "健康檢查", "疫苗接種", "手術服務",
	"復健治療", "牙科服務", "眼科檢查", "產前檢查", "兒童保健",
}

var clinicSuffixes = []string{"聯合", "家庭", "專科", "社區", "仁愛", "康健"}

// GenerateReport counts what a generator run stored.
type GenerateReport struct {
	Subjects      int `json:"subjects"`
	Doctors       int `json:"doctors"`
	Listings      int `json:"listings"`
	Professionals int `json:"professionals"`
	Services      int `json:"services"`
}

// Generator produces the same sample directory for the same seed.
type Generator struct {
	repos Repositories
	log   *logrus.Logger
	seed  int64
}

func NewGenerator(repos Repositories, log *logrus.Logger, seed int64) *Generator {
	return &Generator{repos: repos, log: log, seed: seed}
}

// Generate stores 10 subjects, 8 doctors and 12 listings through tx.
// Subjects and doctors are get-or-create, so rerunning with the same seed does not duplicate them.
func (g *Generator) Generate(ctx context.Context, tx *gorm.DB) (*GenerateReport, error) {
	rnd := rand.New(rand.NewSource(g.seed))
	randomdata.CustomRand(rnd)
	now := timeNow()
	report := &GenerateReport{}

	g.log.Info("Generating sample data")

	subjects := make([]entity.Subject, 0, len(SampleSubjects))
	for _, name := range SampleSubjects {
		subject, created, err := g.repos.Subject.FirstOrCreateByName(tx, name)
		if err != nil {
			return nil, fmt.Errorf("create subject %q: %w", name, err)
		}
		if created {
			report.Subjects++
		}
		subjects = append(subjects, *subject)
		g.log.Debugf("Subject: %s", name)
	}

	doctors := make([]entity.Doctor, 0, generatedDoctors)
	for i := 0; i < generatedDoctors; i++ {
		hired := now.Add(-time.Duration(rnd.Int63n(int64(5 * 365 * 24 * time.Hour))))
		last := randomdata.LastName()
		doctor := &entity.Doctor{
			Name:        randomdata.FullName(randomdata.RandomGender),
			Description: truncate(randomdata.Paragraph(), 200),
			Phone:       randomdata.PhoneNumber(),
			Email:       fmt.Sprintf("dr%02d.%s@clinic.example", i+1, strings.ToLower(last)),
			IsMVP:       rnd.Intn(100) < 30,
			HireDate:    &hired,
		}
		created, err := g.repos.Doctor.FirstOrCreateByEmail(tx, doctor)
		if err != nil {
			return nil, fmt.Errorf("create doctor %q: %w", doctor.Email, err)
		}
		if created {
			report.Doctors++
		}
		doctors = append(doctors, *doctor)
		g.log.Debugf("Doctor: %s", doctor.Name)
	}

	for i := 0; i < generatedListings; i++ {
		doctor := doctors[rnd.Intn(len(doctors))]
		listing := &entity.Listing{
			DoctorID:     doctor.ID,
			Title:        fmt.Sprintf("%s醫師的%s診所", doctor.Name, clinicSuffixes[rnd.Intn(len(clinicSuffixes))]),
			Address:      strings.ReplaceAll(randomdata.Address(), "\n", ", "),
			District:     entity.DistrictChoices[rnd.Intn(len(entity.DistrictChoices))].Key,
			Description:  truncate(randomdata.Paragraph(), 300),
			Service:      rnd.Intn(10) + 1,
			RoomType:     entity.RoomTypeChoices[rnd.Intn(len(entity.RoomTypeChoices))].Key,
			Screen:       rnd.Intn(5) + 1,
			Professional: rnd.Intn(10) + 1,
			Rooms:        entity.RoomsChoices[rnd.Intn(len(entity.RoomsChoices))].Key,
			IsPublished:  rnd.Intn(100) < 80,
			ListDate:     now.Add(-time.Duration(rnd.Int63n(int64(365 * 24 * time.Hour)))),
		}
		if err := g.repos.Listing.Create(tx, listing); err != nil {
			return nil, fmt.Errorf("create listing %q: %w", listing.Title, err)
		}
		report.Listings++

		for _, idx := range pick(rnd, len(subjects), 1+rnd.Intn(3)) {
			added, err := g.repos.Listing.AddProfessional(tx, listing.ID, subjects[idx].ID)
			if err != nil {
				return nil, fmt.Errorf("link listing %d to subject %d: %w", listing.ID, subjects[idx].ID, err)
			}
			if added {
				report.Professionals++
			}
		}

		for _, idx := range pick(rnd, len(SampleServices), 2+rnd.Intn(4)) {
			tag, _, err := g.repos.Tag.FirstOrCreateByName(tx, SampleServices[idx])
			if err != nil {
				return nil, fmt.Errorf("create tag %q: %w", SampleServices[idx], err)
			}
			added, err := g.repos.Listing.AddService(tx, listing.ID, tag.ID)
			if err != nil {
				return nil, fmt.Errorf("tag listing %d: %w", listing.ID, err)
			}
			if added {
				report.Services++
			}
		}
		g.log.Debugf("Listing: %s", listing.Title)
	}

	g.log.Infof("Sample data generated: %d subjects, %d doctors, %d listings",
		len(subjects), len(doctors), report.Listings)
	return report, nil
}

// pick returns k distinct indexes below n.
func pick(rnd *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	return rnd.Perm(n)[:k]
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
