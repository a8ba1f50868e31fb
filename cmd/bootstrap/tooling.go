package bootstrap

import (
	"context"
	"fmt"

	"clinic-directory/config"
	"clinic-directory/internal/dataset"
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/delivery/http/middleware"
	"clinic-directory/internal/infrastructure/cache"
	"clinic-directory/internal/repository"
	"clinic-directory/internal/service"
	"clinic-directory/pkg/jwt"
)

// DataManager wires the import/export tooling against the app's database.
func (app *App) DataManager() *dataset.Manager {
	repos := dataset.Repositories{
		Doctor:  repository.NewDoctorRepository(),
		Subject: repository.NewSubjectRepository(),
		Tag:     repository.NewTagRepository(),
		Listing: repository.NewListingRepository(),
		Data:    repository.NewDataRepository(),
	}
	audit := service.NewAuditService(app.Log, repository.NewAuditLogRepository())

	return dataset.NewManager(
		dataset.NewTransactor(app.DB),
		repos,
		app.Log,
		audit,
		app.listingCache(),
		app.Config.Data.Seed,
	)
}

// IssueToken signs an access token for subject. It needs only configuration.
func IssueToken(cfg config.JWTConfig, subject, role string) (*dto.TokenResponse, error) {
	svc := jwt.NewJWTService(cfg)
	token, tokenID, err := svc.GenerateAccessToken(subject, role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenID:     tokenID,
		ExpiresIn:   int64(svc.GetAccessExpiry().Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// RevokeToken blocks tokenID for the configured access token lifetime.
func RevokeToken(ctx context.Context, cfg *config.Config, tokenID string) error {
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return fmt.Errorf("revocation needs Redis: %w", err)
	}
	defer client.Close()

	return middleware.RevokeToken(ctx, client, tokenID, cfg.JWT.AccessExpiry)
}
