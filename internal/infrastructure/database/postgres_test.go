package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"clinic-directory/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	got := DSN(config.DBConfig{
		Host: "db", Port: "5432", User: "clinic", Password: "secret", Name: "directory",
		SSLMode: "disable", TimeZone: "Asia/Taipei",
	})
	assert.Equal(t, "host=db user=clinic password=secret dbname=directory port=5432 sslmode=disable TimeZone=Asia/Taipei", got)
}

func TestGormLoggerWritesThroughLogrus(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	quiet := NewGormLogger(log, false)
	quiet.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String())

	quiet.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	quiet.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT broken", 0 }, errors.New("syntax error"))
	assert.Contains(t, buf.String(), "SELECT broken")

	buf.Reset()
	verbose := NewGormLogger(log, true)
	verbose.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 2", 1 }, nil)
	assert.Contains(t, buf.String(), "SELECT 2")
}
