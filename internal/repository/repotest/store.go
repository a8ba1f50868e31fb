// Package repotest provides in-memory repositories and a mocked gorm handle
// for tests that exercise use cases and tooling without Postgres.
package repotest

import (
	"sort"
	"strings"
	"sync"
	"time"

	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/domain/repository"

	"gorm.io/gorm"
)

// Store holds every table in memory. The db argument of each repository method is ignored.
type Store struct {
	mu sync.Mutex

	Doctors       map[int64]*entity.Doctor
	Subjects      map[int64]*entity.Subject
	Tags          map[int64]*entity.Tag
	Listings      map[int64]*entity.Listing
	Professionals map[int64]map[int64]bool // listing id -> subject ids
	Services      map[int64]map[int64]bool // listing id -> tag ids
	AuditLogs     []entity.AuditLog

	// Fail makes the named operation (e.g. "doctors.Create") return the error.
	Fail map[string]error

	SyncCalls int
	nextID    map[string]int64
}

func NewStore() *Store {
	s := &Store{Fail: map[string]error{}}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.Doctors = map[int64]*entity.Doctor{}
	s.Subjects = map[int64]*entity.Subject{}
	s.Tags = map[int64]*entity.Tag{}
	s.Listings = map[int64]*entity.Listing{}
	s.Professionals = map[int64]map[int64]bool{}
	s.Services = map[int64]map[int64]bool{}
	s.nextID = map[string]int64{}
}

func (s *Store) fail(op string) error {
	return s.Fail[op]
}

// assign keeps an explicit id and otherwise allocates the next one for table.
func (s *Store) assign(table string, id int64) int64 {
	if id != 0 {
		if id > s.nextID[table] {
			s.nextID[table] = id
		}
		return id
	}
	s.nextID[table]++
	return s.nextID[table]
}

// Repositories returns one implementation of every repository bound to the store.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Doctor:   &doctorRepo{s},
		Subject:  &subjectRepo{s},
		Tag:      &tagRepo{s},
		Listing:  &listingRepo{s},
		AuditLog: &auditLogRepo{s},
		Data:     &dataRepo{s},
	}
}

type Repositories struct {
	Doctor   repository.DoctorRepository
	Subject  repository.SubjectRepository
	Tag      repository.TagRepository
	Listing  repository.ListingRepository
	AuditLog repository.AuditLogRepository
	Data     repository.DataRepository
}

// Actions returns the recorded audit actions in insertion order.
func (s *Store) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.AuditLogs))
	for i, l := range s.AuditLogs {
		actions[i] = l.Action
	}
	return actions
}

type doctorRepo struct{ s *Store }

func (r *doctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("doctors.Create"); err != nil {
		return err
	}
	for _, d := range r.s.Doctors {
		if d.Email == doctor.Email {
			return UniqueViolation("uni_doctors_email")
		}
	}
	doctor.ID = r.s.assign("doctors", doctor.ID)
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = time.Now()
	}
	cp := *doctor
	r.s.Doctors[doctor.ID] = &cp
	return nil
}

func (r *doctorRepo) FindByID(db *gorm.DB, id int64) (*entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.Doctors[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r *doctorRepo) FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.Doctors {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *doctorRepo) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Doctor, 0, len(r.s.Doctors))
	for _, id := range sortedKeys(r.s.Doctors) {
		out = append(out, *r.s.Doctors[id])
	}
	return out, nil
}

func (r *doctorRepo) Update(db *gorm.DB, doctor *entity.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, d := range r.s.Doctors {
		if id != doctor.ID && d.Email == doctor.Email {
			return UniqueViolation("uni_doctors_email")
		}
	}
	cp := *doctor
	r.s.Doctors[doctor.ID] = &cp
	return nil
}

func (r *doctorRepo) Delete(db *gorm.DB, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.Listings {
		if l.DoctorID == id {
			return 0, ForeignKeyViolation("fk_listings_doctor")
		}
	}
	if _, ok := r.s.Doctors[id]; !ok {
		return 0, nil
	}
	delete(r.s.Doctors, id)
	return 1, nil
}

func (r *doctorRepo) Count(db *gorm.DB) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.Doctors)), nil
}

func (r *doctorRepo) FirstOrCreateByEmail(db *gorm.DB, doctor *entity.Doctor) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("doctors.FirstOrCreateByEmail"); err != nil {
		return false, err
	}
	for _, d := range r.s.Doctors {
		if d.Email == doctor.Email {
			*doctor = *d
			return false, nil
		}
	}
	doctor.ID = r.s.assign("doctors", 0)
	cp := *doctor
	r.s.Doctors[doctor.ID] = &cp
	return true, nil
}

type subjectRepo struct{ s *Store }

func (r *subjectRepo) Create(db *gorm.DB, subject *entity.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.Subjects {
		if sub.Name == subject.Name {
			return UniqueViolation("uni_subjects_name")
		}
	}
	subject.ID = r.s.assign("subjects", subject.ID)
	cp := *subject
	r.s.Subjects[subject.ID] = &cp
	return nil
}

func (r *subjectRepo) FindByID(db *gorm.DB, id int64) (*entity.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub, ok := r.s.Subjects[id]; ok {
		cp := *sub
		return &cp, nil
	}
	return nil, nil
}

func (r *subjectRepo) FindByIDs(db *gorm.DB, ids []int64) ([]entity.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Subject
	for _, id := range ids {
		if sub, ok := r.s.Subjects[id]; ok {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (r *subjectRepo) FindAll(db *gorm.DB) ([]entity.Subject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Subject, 0, len(r.s.Subjects))
	for _, id := range sortedKeys(r.s.Subjects) {
		out = append(out, *r.s.Subjects[id])
	}
	return out, nil
}

func (r *subjectRepo) Update(db *gorm.DB, subject *entity.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, sub := range r.s.Subjects {
		if id != subject.ID && sub.Name == subject.Name {
			return UniqueViolation("uni_subjects_name")
		}
	}
	cp := *subject
	r.s.Subjects[subject.ID] = &cp
	return nil
}

func (r *subjectRepo) Delete(db *gorm.DB, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, links := range r.s.Professionals {
		if links[id] {
			return 0, ForeignKeyViolation("fk_listing_professionals_subject")
		}
	}
	if _, ok := r.s.Subjects[id]; !ok {
		return 0, nil
	}
	delete(r.s.Subjects, id)
	return 1, nil
}

func (r *subjectRepo) Count(db *gorm.DB) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.Subjects)), nil
}

func (r *subjectRepo) FirstOrCreateByName(db *gorm.DB, name string) (*entity.Subject, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sub := range r.s.Subjects {
		if sub.Name == name {
			cp := *sub
			return &cp, false, nil
		}
	}
	sub := &entity.Subject{ID: r.s.assign("subjects", 0), Name: name}
	r.s.Subjects[sub.ID] = sub
	cp := *sub
	return &cp, true, nil
}

type tagRepo struct{ s *Store }

func (r *tagRepo) FindAll(db *gorm.DB) ([]entity.Tag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Tag, 0, len(r.s.Tags))
	for _, id := range sortedKeys(r.s.Tags) {
		out = append(out, *r.s.Tags[id])
	}
	return out, nil
}

func (r *tagRepo) Count(db *gorm.DB) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.Tags)), nil
}

func (r *tagRepo) FirstOrCreateByName(db *gorm.DB, name string) (*entity.Tag, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.Tags {
		if t.Name == name {
			cp := *t
			return &cp, false, nil
		}
	}
	t := &entity.Tag{ID: r.s.assign("tags", 0), Name: name, Slug: strings.ToLower(name)}
	r.s.Tags[t.ID] = t
	cp := *t
	return &cp, true, nil
}

type listingRepo struct{ s *Store }

func (r *listingRepo) Create(db *gorm.DB, listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("listings.Create"); err != nil {
		return err
	}
	if _, ok := r.s.Doctors[listing.DoctorID]; !ok {
		return ForeignKeyViolation("fk_listings_doctor")
	}
	listing.ID = r.s.assign("listings", listing.ID)
	r.s.Listings[listing.ID] = stripRelations(listing)
	return nil
}

func (r *listingRepo) FindByID(db *gorm.DB, id int64) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Listings[id]; !ok {
		return nil, nil
	}
	l := r.s.loaded(id)
	return &l, nil
}

func (r *listingRepo) FindByTitleAndDoctor(db *gorm.DB, title string, doctorID int64) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedKeys(r.s.Listings) {
		l := r.s.Listings[id]
		if l.Title == title && l.DoctorID == doctorID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *listingRepo) FindAll(db *gorm.DB, filter *entity.ListingFilter) ([]entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Listing
	for id, l := range r.s.Listings {
		if filter != nil && filter.PublishedOnly && !l.IsPublished {
			continue
		}
		if filter != nil && filter.DoctorID != 0 && l.DoctorID != filter.DoctorID {
			continue
		}
		out = append(out, r.s.loaded(id))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ListDate.Equal(out[j].ListDate) {
			return out[i].ListDate.After(out[j].ListDate)
		}
		return out[i].ID > out[j].ID
	})
	if filter != nil && filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *listingRepo) Update(db *gorm.DB, listing *entity.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Doctors[listing.DoctorID]; !ok {
		return ForeignKeyViolation("fk_listings_doctor")
	}
	r.s.Listings[listing.ID] = stripRelations(listing)
	return nil
}

func (r *listingRepo) Delete(db *gorm.DB, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Listings[id]; !ok {
		return 0, nil
	}
	delete(r.s.Listings, id)
	delete(r.s.Professionals, id)
	delete(r.s.Services, id)
	return 1, nil
}

func (r *listingRepo) Count(db *gorm.DB) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.Listings)), nil
}

func (r *listingRepo) AddProfessional(db *gorm.DB, listingID, subjectID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Subjects[subjectID]; !ok {
		return false, ForeignKeyViolation("fk_listing_professionals_subject")
	}
	return addLink(r.s.Professionals, listingID, subjectID), nil
}

func (r *listingRepo) ReplaceProfessionals(db *gorm.DB, listingID int64, subjectIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Professionals, listingID)
	for _, id := range subjectIDs {
		addLink(r.s.Professionals, listingID, id)
	}
	return nil
}

func (r *listingRepo) CountProfessionals(db *gorm.DB) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, links := range r.s.Professionals {
		n += int64(len(links))
	}
	return n, nil
}

func (r *listingRepo) AddService(db *gorm.DB, listingID, tagID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return addLink(r.s.Services, listingID, tagID), nil
}

func (r *listingRepo) ReplaceServices(db *gorm.DB, listingID int64, tagIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.Services, listingID)
	for _, id := range tagIDs {
		addLink(r.s.Services, listingID, id)
	}
	return nil
}

func (r *listingRepo) ScoreSums(db *gorm.DB) (*entity.ListingScoreSums, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := &entity.ListingScoreSums{}
	for _, l := range r.s.Listings {
		sums.Count++
		sums.Service += int64(l.Service)
		sums.Screen += int64(l.Screen)
		sums.Professional += int64(l.Professional)
	}
	return sums, nil
}

// loaded returns a copy of the listing with its relations attached. Callers hold mu.
func (s *Store) loaded(id int64) entity.Listing {
	l := *s.Listings[id]
	if d, ok := s.Doctors[l.DoctorID]; ok {
		l.Doctor = *d
	}
	for _, sid := range sortedKeys(s.Professionals[id]) {
		if sub, ok := s.Subjects[sid]; ok {
			l.Professionals = append(l.Professionals, *sub)
		}
	}
	for _, tid := range sortedKeys(s.Services[id]) {
		if t, ok := s.Tags[tid]; ok {
			l.Services = append(l.Services, *t)
		}
	}
	sort.Slice(l.Services, func(i, j int) bool { return l.Services[i].Name < l.Services[j].Name })
	return l
}

type auditLogRepo struct{ s *Store }

func (r *auditLogRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("audit_logs.Create"); err != nil {
		return err
	}
	log.ID = int64(len(r.s.AuditLogs) + 1)
	log.CreatedAt = time.Now()
	r.s.AuditLogs = append(r.s.AuditLogs, *log)
	return nil
}

func (r *auditLogRepo) FindAll(db *gorm.DB, filter *entity.AuditLogFilter) ([]entity.AuditLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []entity.AuditLog
	for i := len(r.s.AuditLogs) - 1; i >= 0; i-- {
		l := r.s.AuditLogs[i]
		if (filter.Actor == "" || l.Actor == filter.Actor) && (filter.Action == "" || l.Action == filter.Action) {
			matched = append(matched, l)
		}
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *auditLogRepo) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.AuditLogs {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, nil
}

type dataRepo struct{ s *Store }

func (r *dataRepo) DeleteAll(db *gorm.DB) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("data.DeleteAll"); err != nil {
		return err
	}
	r.s.reset()
	return nil
}

func (r *dataRepo) SyncSequences(db *gorm.DB) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.SyncCalls++
	return nil
}

func stripRelations(l *entity.Listing) *entity.Listing {
	cp := *l
	cp.Doctor = entity.Doctor{}
	cp.Professionals = nil
	cp.Services = nil
	return &cp
}

func addLink(links map[int64]map[int64]bool, listingID, otherID int64) bool {
	if links[listingID] == nil {
		links[listingID] = map[int64]bool{}
	}
	if links[listingID][otherID] {
		return false
	}
	links[listingID][otherID] = true
	return true
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
