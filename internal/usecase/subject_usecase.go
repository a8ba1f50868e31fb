package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-directory/internal/converter"
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/domain/repository"
	"clinic-directory/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSubjectNotFound   = errors.New("subject not found")
	ErrSubjectNameExists = errors.New("subject name already exists")
	ErrSubjectInUse      = errors.New("subject is linked to listings")
)

type SubjectUsecase interface {
	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	GetSubject(ctx context.Context, subjectID int64) (*dto.SubjectResponse, error)
	GetAllSubjects(ctx context.Context) (*dto.SubjectListResponse, error)
	UpdateSubject(ctx context.Context, subjectID int64, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, subjectID int64) error
}

type subjectUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	subjectRepo  repository.SubjectRepository
	auditService service.AuditService
	cache        service.ListingCache
}

func NewSubjectUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	subjectRepo repository.SubjectRepository,
	auditService service.AuditService,
	cache service.ListingCache,
) SubjectUsecase {
	return &subjectUsecase{
		db:           db,
		log:          log,
		subjectRepo:  subjectRepo,
		auditService: auditService,
		cache:        cache,
	}
}

func (u *subjectUsecase) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	subject := &entity.Subject{Name: strings.TrimSpace(req.Name)}
	if err := u.subjectRepo.Create(tx, subject); err != nil {
		u.log.Warnf("Failed to create subject: %+v", err)
		if isDuplicateKeyError(err, "name") {
			return nil, ErrSubjectNameExists
		}
		return nil, err
	}

	resp := converter.SubjectToResponse(subject)
	if err := u.auditService.LogCreate(ctx, tx, actorFromContext(ctx), entity.AuditActionSubjectCreate, "subject", subject.ID, resp); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return resp, nil
}

func (u *subjectUsecase) GetSubject(ctx context.Context, subjectID int64) (*dto.SubjectResponse, error) {
	subject, err := u.subjectRepo.FindByID(u.db.WithContext(ctx), subjectID)
	if err != nil {
		u.log.Warnf("Failed to find subject: %+v", err)
		return nil, err
	}
	if subject == nil {
		return nil, ErrSubjectNotFound
	}

	return converter.SubjectToResponse(subject), nil
}

func (u *subjectUsecase) GetAllSubjects(ctx context.Context) (*dto.SubjectListResponse, error) {
	subjects, err := u.subjectRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all subjects: %+v", err)
		return nil, err
	}

	responses := converter.SubjectsToResponses(subjects)
	return &dto.SubjectListResponse{
		Subjects: responses,
		Total:    len(responses),
	}, nil
}

func (u *subjectUsecase) UpdateSubject(ctx context.Context, subjectID int64, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	subject, err := u.subjectRepo.FindByID(tx, subjectID)
	if err != nil {
		u.log.Warnf("Failed to find subject: %+v", err)
		return nil, err
	}
	if subject == nil {
		return nil, ErrSubjectNotFound
	}
	oldValue := converter.SubjectToResponse(subject)

	subject.Name = strings.TrimSpace(req.Name)
	if err := u.subjectRepo.Update(tx, subject); err != nil {
		u.log.Warnf("Failed to update subject: %+v", err)
		if isDuplicateKeyError(err, "name") {
			return nil, ErrSubjectNameExists
		}
		return nil, err
	}

	newValue := converter.SubjectToResponse(subject)
	if err := u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionSubjectUpdate, "subject", subject.ID, oldValue, newValue); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Listings embed professional names
	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate listing cache: %+v", err)
	}
	return newValue, nil
}

func (u *subjectUsecase) DeleteSubject(ctx context.Context, subjectID int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	subject, err := u.subjectRepo.FindByID(tx, subjectID)
	if err != nil {
		u.log.Warnf("Failed to find subject: %+v", err)
		return err
	}
	if subject == nil {
		return ErrSubjectNotFound
	}

	if _, err := u.subjectRepo.Delete(tx, subjectID); err != nil {
		u.log.Warnf("Failed to delete subject: %+v", err)
		if isForeignKeyError(err, "subject") {
			return ErrSubjectInUse
		}
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, actorFromContext(ctx), entity.AuditActionSubjectDelete, "subject", subjectID, converter.SubjectToResponse(subject)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
