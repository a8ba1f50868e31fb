package bootstrap

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"clinic-directory/config"
	"clinic-directory/internal/delivery/http/middleware"
	"clinic-directory/internal/domain/entity"
	"clinic-directory/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	defer logrus.SetOutput(logrus.StandardLogger().Out)

	var buf bytes.Buffer
	log := setupLogger(config.AppConfig{Env: "production"}, &buf)
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)
	assert.Equal(t, logrus.InfoLevel, log.Level)

	log.Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	log = setupLogger(config.AppConfig{Env: "development"}, &buf)
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
	assert.Equal(t, logrus.DebugLevel, log.Level)
}

func TestIssueToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "cli-secret", AccessExpiry: 30 * time.Minute}

	resp, err := IssueToken(cfg, "ops@example.com", entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(1800), resp.ExpiresIn)
	assert.NotEmpty(t, resp.TokenID)

	claims, err := jwt.NewJWTService(cfg).ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, resp.TokenID, claims.TokenID)
	assert.Equal(t, "ops@example.com", claims.Subject)
}

func TestIssueToken_MissingSecret(t *testing.T) {
	_, err := IssueToken(config.JWTConfig{AccessExpiry: time.Minute}, "ops@example.com", entity.RoleAdmin)
	assert.ErrorIs(t, err, jwt.ErrMissingSecret)
}

func TestRevokeToken(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := &config.Config{
		Redis: config.RedisConfig{Host: host, Port: port},
		JWT:   config.JWTConfig{AccessExpiry: 15 * time.Minute},
	}
	require.NoError(t, RevokeToken(context.Background(), cfg, "abc-123"))

	assert.True(t, mr.Exists(middleware.RevokedTokenKey("abc-123")))
	assert.Equal(t, 15*time.Minute, mr.TTL(middleware.RevokedTokenKey("abc-123")))
}
