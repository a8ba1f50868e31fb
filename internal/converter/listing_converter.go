package converter

import (
	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/domain/entity"
)

// ListingToResponse converts a Listing entity with its preloaded relations to ListingResponse DTO
func ListingToResponse(listing *entity.Listing) *dto.ListingResponse {
	if listing == nil {
		return nil
	}

	resp := &dto.ListingResponse{
		ID:            listing.ID,
		Title:         listing.Title,
		Address:       listing.Address,
		District:      listing.District,
		DistrictLabel: entity.ChoiceLabel(entity.DistrictChoices, listing.District),
		Description:   listing.Description,
		Service:       listing.Service,
		Screen:        listing.Screen,
		Professional:  listing.Professional,
		RoomType:      listing.RoomType,
		RoomTypeLabel: entity.ChoiceLabel(entity.RoomTypeChoices, listing.RoomType),
		Rooms:         listing.Rooms,
		PhotoMain:     listing.PhotoMain,
		IsPublished:   listing.IsPublished,
		ListDate:      listing.ListDate,
		Professionals: SubjectsToResponses(listing.Professionals),
		Services:      listing.ServiceNames(),
	}

	// Doctor is only present when preloaded
	if listing.Doctor.ID != 0 {
		resp.Doctor = &dto.ListingDoctorResponse{
			ID:    listing.Doctor.ID,
			Name:  listing.Doctor.Name,
			Email: listing.Doctor.Email,
			Phone: listing.Doctor.Phone,
			IsMVP: listing.Doctor.IsMVP,
		}
	}

	return resp
}

// ListingsToResponses converts a slice of Listing entities to slice of ListingResponse DTOs
func ListingsToResponses(listings []entity.Listing) []dto.ListingResponse {
	responses := make([]dto.ListingResponse, len(listings))
	for i := range listings {
		responses[i] = *ListingToResponse(&listings[i])
	}
	return responses
}
