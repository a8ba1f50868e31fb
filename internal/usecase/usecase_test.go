package usecase

import (
	"context"
	"io"
	"testing"

	"clinic-directory/internal/delivery/http/middleware"
	"clinic-directory/internal/repository/repotest"
	"clinic-directory/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	store *repotest.Store
	repos repotest.Repositories
	log   *logrus.Logger
	audit service.AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock := repotest.NewMockDB(t)
	store := repotest.NewStore()
	repos := store.Repositories()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &fixture{
		db:    db,
		mock:  mock,
		store: store,
		repos: repos,
		log:   log,
		audit: service.NewAuditService(log, repos.AuditLog),
	}
}

// expectCommit covers a mutation that writes its audit entry and commits.
func (f *fixture) expectCommit() {
	f.mock.ExpectBegin()
	f.mock.ExpectExec("SAVEPOINT audit_log").WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectCommit()
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

func adminCtx() context.Context {
	return context.WithValue(context.Background(), middleware.SubjectKey, "ops@example.com")
}
