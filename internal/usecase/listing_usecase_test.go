package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListingUsecase(f *fixture, cache service.ListingCache) ListingUsecase {
	return NewListingUsecase(f.db, f.log, f.repos.Listing, f.repos.Doctor, f.repos.Subject, f.repos.Tag, f.audit, cache)
}

func seedDoctor(t *testing.T, f *fixture) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{Name: "陳大明", Email: "chen@example.com"}
	require.NoError(t, f.repos.Doctor.Create(nil, doctor))
	return doctor
}

func TestCreateListing_WithRelations(t *testing.T) {
	f := newFixture(t)
	uc := newListingUsecase(f, service.NopListingCache{})
	doctor := seedDoctor(t, f)
	sub, _, err := f.repos.Subject.FirstOrCreateByName(nil, "Cardiology")
	require.NoError(t, err)
	f.expectCommit()

	resp, err := uc.CreateListing(adminCtx(), &dto.CreateListingRequest{
		DoctorID:        doctor.ID,
		Title:           "陽光診所",
		District:        "Xinyi",
		Service:         4,
		ProfessionalIDs: []int64{sub.ID, sub.ID},
		Services:        []string{"X-ray", " Vaccination ", "X-ray", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "陽光診所", resp.Title)
	assert.True(t, resp.IsPublished)
	assert.Equal(t, "信義區", resp.DistrictLabel)
	require.NotNil(t, resp.Doctor)
	assert.Equal(t, doctor.ID, resp.Doctor.ID)
	require.Len(t, resp.Professionals, 1)
	assert.Equal(t, []string{"Vaccination", "X-ray"}, resp.Services)
	assert.Len(t, f.store.Tags, 2)
	assert.Equal(t, []string{entity.AuditActionListingCreate}, f.store.Actions())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateListing_UnknownDoctor(t *testing.T) {
	f := newFixture(t)
	uc := newListingUsecase(f, service.NopListingCache{})
	f.expectRollback()

	_, err := uc.CreateListing(adminCtx(), &dto.CreateListingRequest{DoctorID: 99, Title: "X"})

	assert.ErrorIs(t, err, ErrListingDoctorNotFound)
	assert.Empty(t, f.store.Listings)
}

func TestCreateListing_UnknownProfessional(t *testing.T) {
	f := newFixture(t)
	uc := newListingUsecase(f, service.NopListingCache{})
	doctor := seedDoctor(t, f)
	f.expectRollback()

	_, err := uc.CreateListing(adminCtx(), &dto.CreateListingRequest{
		DoctorID:        doctor.ID,
		Title:           "X",
		ProfessionalIDs: []int64{404},
	})

	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestCreateListing_ExplicitUnpublished(t *testing.T) {
	f := newFixture(t)
	uc := newListingUsecase(f, service.NopListingCache{})
	doctor := seedDoctor(t, f)
	f.expectCommit()

	published := false
	resp, err := uc.CreateListing(adminCtx(), &dto.CreateListingRequest{DoctorID: doctor.ID, Title: "X", IsPublished: &published})
	require.NoError(t, err)
	assert.False(t, resp.IsPublished)

	all, err := uc.GetAllListings(context.Background(), true, 0)
	require.NoError(t, err)
	assert.Zero(t, all.Total)
}

func TestUpdateListing_KeepsServicesWhenOnlyProfessionalsChange(t *testing.T) {
	f := newFixture(t)
	uc := newListingUsecase(f, service.NopListingCache{})
	doctor := seedDoctor(t, f)
	a, _, _ := f.repos.Subject.FirstOrCreateByName(nil, "A")
	b, _, _ := f.repos.Subject.FirstOrCreateByName(nil, "B")

	f.expectCommit()
	created, err := uc.CreateListing(adminCtx(), &dto.CreateListingRequest{
		DoctorID:        doctor.ID,
		Title:           "X",
		ProfessionalIDs: []int64{a.ID},
		Services:        []string{"X-ray"},
	})
	require.NoError(t, err)

	f.expectCommit()
	title := "Y"
	updated, err := uc.UpdateListing(adminCtx(), created.ID, &dto.UpdateListingRequest{
		Title:           &title,
		ProfessionalIDs: []int64{b.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, "Y", updated.Title)
	require.Len(t, updated.Professionals, 1)
	assert.Equal(t, b.ID, updated.Professionals[0].ID)
	assert.Equal(t, []string{"X-ray"}, updated.Services)
}

func TestGetListing_NotFound(t *testing.T) {
	f := newFixture(t)
	uc := newListingUsecase(f, service.NopListingCache{})

	_, err := uc.GetListing(context.Background(), 1)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListingCache_InvalidatedOnMutation(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	uc := newListingUsecase(f, service.NewListingCache(client, time.Minute, f.log))
	doctor := seedDoctor(t, f)

	f.expectCommit()
	created, err := uc.CreateListing(adminCtx(), &dto.CreateListingRequest{DoctorID: doctor.ID, Title: "X"})
	require.NoError(t, err)

	_, err = uc.GetListing(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(service.ListingKey("id", created.ID)))

	f.expectCommit()
	require.NoError(t, uc.DeleteListing(adminCtx(), created.ID))
	assert.False(t, mr.Exists(service.ListingKey("id", created.ID)))

	_, err = uc.GetListing(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestGetAllListings_NormalizesLimitForCacheKey(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	uc := newListingUsecase(f, service.NewListingCache(client, time.Minute, f.log))

	for _, limit := range []int{-1, -2, 0} {
		_, err := uc.GetAllListings(context.Background(), true, limit)
		require.NoError(t, err)
	}
	for _, limit := range []int{MaxListingLimit + 1, 5000} {
		_, err := uc.GetAllListings(context.Background(), true, limit)
		require.NoError(t, err)
	}

	assert.ElementsMatch(t, []string{
		service.ListingKey("all", true, 0),
		service.ListingKey("all", true, MaxListingLimit),
	}, mr.Keys())
}
