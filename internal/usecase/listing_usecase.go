package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-directory/internal/converter"
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/domain/repository"
	"clinic-directory/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound       = errors.New("listing not found")
	ErrListingDoctorNotFound = errors.New("listing doctor not found")
)

// MaxListingLimit caps the limit accepted by GetAllListings.
const MaxListingLimit = 100

type ListingUsecase interface {
	CreateListing(ctx context.Context, req *dto.CreateListingRequest) (*dto.ListingResponse, error)
	GetListing(ctx context.Context, listingID int64) (*dto.ListingResponse, error)
	// GetAllListings returns listings newest first. limit <= 0 means no limit;
	// larger values are capped at MaxListingLimit.
	GetAllListings(ctx context.Context, publishedOnly bool, limit int) (*dto.ListingListResponse, error)
	UpdateListing(ctx context.Context, listingID int64, req *dto.UpdateListingRequest) (*dto.ListingResponse, error)
	DeleteListing(ctx context.Context, listingID int64) error
}

type listingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	listingRepo  repository.ListingRepository
	doctorRepo   repository.DoctorRepository
	subjectRepo  repository.SubjectRepository
	tagRepo      repository.TagRepository
	auditService service.AuditService
	cache        service.ListingCache
}

func NewListingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	listingRepo repository.ListingRepository,
	doctorRepo repository.DoctorRepository,
	subjectRepo repository.SubjectRepository,
	tagRepo repository.TagRepository,
	auditService service.AuditService,
	cache service.ListingCache,
) ListingUsecase {
	return &listingUsecase{
		db:           db,
		log:          log,
		listingRepo:  listingRepo,
		doctorRepo:   doctorRepo,
		subjectRepo:  subjectRepo,
		tagRepo:      tagRepo,
		auditService: auditService,
		cache:        cache,
	}
}

func (u *listingUsecase) CreateListing(ctx context.Context, req *dto.CreateListingRequest) (*dto.ListingResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ensureDoctor(tx, req.DoctorID); err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		DoctorID:     req.DoctorID,
		Title:        req.Title,
		Address:      req.Address,
		District:     req.District,
		Description:  req.Description,
		Service:      req.Service,
		Screen:       req.Screen,
		Professional: req.Professional,
		RoomType:     req.RoomType,
		Rooms:        req.Rooms,
		PhotoMain:    req.PhotoMain,
		IsPublished:  true,
		ListDate:     time.Now(),
	}
	if req.IsPublished != nil {
		listing.IsPublished = *req.IsPublished
	}
	if req.ListDate != nil {
		listing.ListDate = *req.ListDate
	}

	if err := u.listingRepo.Create(tx, listing); err != nil {
		u.log.Warnf("Failed to create listing: %+v", err)
		if isForeignKeyError(err, "doctor") {
			return nil, ErrListingDoctorNotFound
		}
		return nil, err
	}

	if err := u.replaceRelations(tx, listing.ID, req.ProfessionalIDs, req.Services); err != nil {
		return nil, err
	}

	created, err := u.listingRepo.FindByID(tx, listing.ID)
	if err != nil {
		u.log.Warnf("Failed to reload listing: %+v", err)
		return nil, err
	}
	resp := converter.ListingToResponse(created)

	if err := u.auditService.LogCreate(ctx, tx, actorFromContext(ctx), entity.AuditActionListingCreate, "listing", listing.ID, resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidate(ctx)
	return resp, nil
}

func (u *listingUsecase) GetListing(ctx context.Context, listingID int64) (*dto.ListingResponse, error) {
	key := service.ListingKey("id", listingID)

	var cached dto.ListingResponse
	if hit, err := u.cache.Get(ctx, key, &cached); err != nil {
		u.log.Warnf("Failed to read listing cache: %+v", err)
	} else if hit {
		return &cached, nil
	}

	listing, err := u.listingRepo.FindByID(u.db.WithContext(ctx), listingID)
	if err != nil {
		u.log.Warnf("Failed to find listing: %+v", err)
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	resp := converter.ListingToResponse(listing)
	if err := u.cache.Set(ctx, key, resp); err != nil {
		u.log.Warnf("Failed to write listing cache: %+v", err)
	}
	return resp, nil
}

func (u *listingUsecase) GetAllListings(ctx context.Context, publishedOnly bool, limit int) (*dto.ListingListResponse, error) {
	limit = normalizeLimit(limit)
	key := service.ListingKey("all", publishedOnly, limit)

	var cached dto.ListingListResponse
	if hit, err := u.cache.Get(ctx, key, &cached); err != nil {
		u.log.Warnf("Failed to read listing cache: %+v", err)
	} else if hit {
		return &cached, nil
	}

	listings, err := u.listingRepo.FindAll(u.db.WithContext(ctx), &entity.ListingFilter{
		PublishedOnly: publishedOnly,
		Limit:         limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find all listings: %+v", err)
		return nil, err
	}

	responses := converter.ListingsToResponses(listings)
	resp := &dto.ListingListResponse{
		Listings: responses,
		Total:    len(responses),
	}
	if err := u.cache.Set(ctx, key, resp); err != nil {
		u.log.Warnf("Failed to write listing cache: %+v", err)
	}
	return resp, nil
}

func (u *listingUsecase) UpdateListing(ctx context.Context, listingID int64, req *dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	listing, err := u.listingRepo.FindByID(tx, listingID)
	if err != nil {
		u.log.Warnf("Failed to find listing: %+v", err)
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	oldValue := converter.ListingToResponse(listing)

	if req.DoctorID != nil && *req.DoctorID != listing.DoctorID {
		if err := u.ensureDoctor(tx, *req.DoctorID); err != nil {
			return nil, err
		}
		listing.DoctorID = *req.DoctorID
	}
	applyListingUpdate(listing, req)

	if err := u.listingRepo.Update(tx, listing); err != nil {
		u.log.Warnf("Failed to update listing: %+v", err)
		if isForeignKeyError(err, "doctor") {
			return nil, ErrListingDoctorNotFound
		}
		return nil, err
	}

	if req.ProfessionalIDs != nil || req.Services != nil {
		professionalIDs := req.ProfessionalIDs
		if professionalIDs == nil {
			professionalIDs = listing.ProfessionalIDs()
		}
		services := req.Services
		if services == nil {
			services = listing.ServiceNames()
		}
		if err := u.replaceRelations(tx, listing.ID, professionalIDs, services); err != nil {
			return nil, err
		}
	}

	updated, err := u.listingRepo.FindByID(tx, listing.ID)
	if err != nil {
		u.log.Warnf("Failed to reload listing: %+v", err)
		return nil, err
	}
	newValue := converter.ListingToResponse(updated)

	if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionListingUpdate, "listing", listing.ID, oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidate(ctx)
	return newValue, nil
}

func (u *listingUsecase) DeleteListing(ctx context.Context, listingID int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	listing, err := u.listingRepo.FindByID(tx, listingID)
	if err != nil {
		u.log.Warnf("Failed to find listing: %+v", err)
		return err
	}
	if listing == nil {
		return ErrListingNotFound
	}

	if _, err := u.listingRepo.Delete(tx, listingID); err != nil {
		u.log.Warnf("Failed to delete listing: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFromContext(ctx), entity.AuditActionListingDelete, "listing", listingID, converter.ListingToResponse(listing)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.invalidate(ctx)
	return nil
}

func (u *listingUsecase) ensureDoctor(tx *gorm.DB, doctorID int64) error {
	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrListingDoctorNotFound
	}
	return nil
}

// replaceRelations sets the professional and service sets of a listing.
// Service names are created as tags on first use.
func (u *listingUsecase) replaceRelations(tx *gorm.DB, listingID int64, professionalIDs []int64, services []string) error {
	subjectIDs := uniqueIDs(professionalIDs)
	if len(subjectIDs) > 0 {
		subjects, err := u.subjectRepo.FindByIDs(tx, subjectIDs)
		if err != nil {
			u.log.Warnf("Failed to find subjects: %+v", err)
			return err
		}
		if len(subjects) != len(subjectIDs) {
			return ErrSubjectNotFound
		}
	}
	if err := u.listingRepo.ReplaceProfessionals(tx, listingID, subjectIDs); err != nil {
		u.log.Warnf("Failed to replace listing professionals: %+v", err)
		return err
	}

	tagIDs := make([]int64, 0, len(services))
	seen := make(map[int64]bool, len(services))
	for _, name := range services {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag, _, err := u.tagRepo.FirstOrCreateByName(tx, name)
		if err != nil {
			u.log.Warnf("Failed to get or create tag %q: %+v", name, err)
			return err
		}
		if !seen[tag.ID] {
			seen[tag.ID] = true
			tagIDs = append(tagIDs, tag.ID)
		}
	}
	if err := u.listingRepo.ReplaceServices(tx, listingID, tagIDs); err != nil {
		u.log.Warnf("Failed to replace listing services: %+v", err)
		return err
	}

	return nil
}

func (u *listingUsecase) invalidate(ctx context.Context) {
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate listing cache: %+v", err)
	}
}

func applyListingUpdate(listing *entity.Listing, req *dto.UpdateListingRequest) {
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Address != nil {
		listing.Address = *req.Address
	}
	if req.District != nil {
		listing.District = *req.District
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Service != nil {
		listing.Service = *req.Service
	}
	if req.Screen != nil {
		listing.Screen = *req.Screen
	}
	if req.Professional != nil {
		listing.Professional = *req.Professional
	}
	if req.RoomType != nil {
		listing.RoomType = *req.RoomType
	}
	if req.Rooms != nil {
		listing.Rooms = *req.Rooms
	}
	if req.PhotoMain != nil {
		listing.PhotoMain = *req.PhotoMain
	}
	if req.IsPublished != nil {
		listing.IsPublished = *req.IsPublished
	}
	if req.ListDate != nil {
		listing.ListDate = *req.ListDate
	}
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 0
	case limit > MaxListingLimit:
		return MaxListingLimit
	}
	return limit
}
