package usecase

import (
	"context"
	"errors"

	"clinic-directory/internal/converter"
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/domain/repository"
	"clinic-directory/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorEmailExists = errors.New("email already exists")
	ErrDoctorHasListings = errors.New("doctor still owns listings")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID int64) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID int64) error
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	cache        service.ListingCache
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	cache service.ListingCache,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		cache:        cache,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor := &entity.Doctor{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Photo:       req.Photo,
		Description: req.Description,
		IsMVP:       req.IsMVP,
		HireDate:    req.HireDate,
	}
	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		return nil, err
	}

	resp := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogCreate(ctx, tx, actorFromContext(ctx), entity.AuditActionDoctorCreate, "doctor", doctor.ID, resp); err != nil {
		// Don't fail the transaction for audit log errors
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidate(ctx)
	return resp, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID int64) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	responses := converter.DoctorsToResponses(doctors)
	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID int64, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	oldValue := converter.DoctorToResponse(doctor)

	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Email != "" {
		doctor.Email = req.Email
	}
	if req.Phone != "" {
		doctor.Phone = req.Phone
	}
	if req.Photo != "" {
		doctor.Photo = req.Photo
	}
	if req.Description != "" {
		doctor.Description = req.Description
	}
	if req.IsMVP != nil {
		doctor.IsMVP = *req.IsMVP
	}
	if req.HireDate != nil {
		doctor.HireDate = req.HireDate
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionDoctorUpdate, "doctor", doctor.ID, oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.invalidate(ctx)
	return newValue, nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if _, err := u.doctorRepo.Delete(tx, doctorID); err != nil {
		u.log.Warnf("Failed to delete doctor: %+v", err)
		if isForeignKeyError(err, "doctor") {
			return ErrDoctorHasListings
		}
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFromContext(ctx), entity.AuditActionDoctorDelete, "doctor", doctorID, converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.invalidate(ctx)
	return nil
}

// invalidate drops cached listing reads, which embed doctor fields.
func (u *doctorUsecase) invalidate(ctx context.Context) {
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate listing cache: %+v", err)
	}
}
