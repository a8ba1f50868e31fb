package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/usecase"
	"clinic-directory/pkg/response"
	"clinic-directory/pkg/validator"
)

type ListingHandler struct {
	listingUsecase usecase.ListingUsecase
	validator      *validator.CustomValidator
}

func NewListingHandler(listingUsecase usecase.ListingUsecase, validator *validator.CustomValidator) *ListingHandler {
	return &ListingHandler{
		listingUsecase: listingUsecase,
		validator:      validator,
	}
}

func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	listing, err := h.listingUsecase.CreateListing(r.Context(), &req)
	if err != nil {
		h.writeMutationError(w, err, "Failed to create listing")
		return
	}

	response.Success(w, http.StatusCreated, "Listing created successfully", listing)
}

// GetListing serves the public route: unpublished listings read as not found.
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	h.getListing(w, r, true)
}

// GetListingDraft serves the admin route and returns unpublished listings too.
func (h *ListingHandler) GetListingDraft(w http.ResponseWriter, r *http.Request) {
	h.getListing(w, r, false)
}

func (h *ListingHandler) getListing(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	listingID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	listing, err := h.listingUsecase.GetListing(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, usecase.ErrListingNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		response.InternalServerError(w, "Failed to get listing")
		return
	}
	if publishedOnly && !listing.IsPublished {
		response.NotFound(w, "Listing not found")
		return
	}

	response.Success(w, http.StatusOK, "Listing retrieved successfully", listing)
}

// GetAllListings lists published listings newest first; ?limit=N caps the result.
func (h *ListingHandler) GetAllListings(w http.ResponseWriter, r *http.Request) {
	h.getAllListings(w, r, true)
}

// GetAllListingsDraft lists every listing, published or not.
func (h *ListingHandler) GetAllListingsDraft(w http.ResponseWriter, r *http.Request) {
	h.getAllListings(w, r, false)
}

func (h *ListingHandler) getAllListings(w http.ResponseWriter, r *http.Request, publishedOnly bool) {
	listings, err := h.listingUsecase.GetAllListings(r.Context(), publishedOnly, queryInt(r, "limit", 0))
	if err != nil {
		response.InternalServerError(w, "Failed to get listings")
		return
	}

	response.Success(w, http.StatusOK, "Listings retrieved successfully", listings)
}

func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	var req dto.UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	listing, err := h.listingUsecase.UpdateListing(r.Context(), listingID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrListingNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		h.writeMutationError(w, err, "Failed to update listing")
		return
	}

	response.Success(w, http.StatusOK, "Listing updated successfully", listing)
}

func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid listing ID")
		return
	}

	if err := h.listingUsecase.DeleteListing(r.Context(), listingID); err != nil {
		if errors.Is(err, usecase.ErrListingNotFound) {
			response.NotFound(w, "Listing not found")
			return
		}
		response.InternalServerError(w, "Failed to delete listing")
		return
	}

	response.Success(w, http.StatusOK, "Listing deleted successfully", nil)
}

func (h *ListingHandler) writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, usecase.ErrListingDoctorNotFound):
		response.BadRequest(w, "Doctor not found")
	case errors.Is(err, usecase.ErrSubjectNotFound):
		response.BadRequest(w, "Professional subject not found")
	default:
		response.InternalServerError(w, fallback)
	}
}
