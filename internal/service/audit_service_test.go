package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/repository"
	"clinic-directory/internal/repository/repotest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAuditService_FailedInsertKeepsTransaction(t *testing.T) {
	db, mock := repotest.NewMockDB(t)
	svc := NewAuditService(quietLog(), repository.NewAuditLogRepository())

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT audit_log").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).WillReturnError(errors.New("audit table locked"))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT audit_log").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx := db.Begin()
	err := svc.LogCreate(context.Background(), tx, "ops@example.com", entity.AuditActionDoctorCreate, "doctor", 1, nil)
	require.Error(t, err)
	require.NoError(t, tx.Commit().Error)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditService_WritesEntry(t *testing.T) {
	store := repotest.NewStore()
	svc := NewAuditService(quietLog(), store.Repositories().AuditLog)

	err := svc.LogEvent(context.Background(), nil, "", entity.AuditActionDataSeed, entity.JSON{"reset": true})
	require.NoError(t, err)

	assert.Equal(t, []string{entity.AuditActionDataSeed}, store.Actions())
}
