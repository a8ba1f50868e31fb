package converter

import (
	"testing"
	"time"

	"clinic-directory/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingToResponse(t *testing.T) {
	listing := &entity.Listing{
		ID:          3,
		Title:       "陽光診所",
		District:    "Xinyi",
		RoomType:    "surgery",
		IsPublished: true,
		ListDate:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Doctor:      entity.Doctor{ID: 1, Name: "陳大明", Email: "chen@example.com"},
		Professionals: []entity.Subject{
			{ID: 2, Name: "Cardiology"},
		},
		Services: []entity.Tag{{ID: 5, Name: "X-ray"}, {ID: 6, Name: "Vaccination"}},
	}

	resp := ListingToResponse(listing)
	require.NotNil(t, resp)

	assert.Equal(t, "信義區", resp.DistrictLabel)
	assert.Equal(t, "手術室", resp.RoomTypeLabel)
	require.NotNil(t, resp.Doctor)
	assert.Equal(t, "陳大明", resp.Doctor.Name)
	assert.Equal(t, []string{"X-ray", "Vaccination"}, resp.Services)
	require.Len(t, resp.Professionals, 1)
	assert.Equal(t, int64(2), resp.Professionals[0].ID)
}

func TestListingToResponse_WithoutDoctor(t *testing.T) {
	resp := ListingToResponse(&entity.Listing{ID: 1, District: "Unknown"})
	require.NotNil(t, resp)
	assert.Nil(t, resp.Doctor)
	assert.Equal(t, "Unknown", resp.DistrictLabel)
	assert.Empty(t, resp.Services)
	assert.Nil(t, ListingToResponse(nil))
}
