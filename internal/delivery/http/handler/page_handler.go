package handler

import (
	"errors"
	"net/http"

	"clinic-directory/internal/delivery/dto"
	"clinic-directory/internal/delivery/http/web"
	"clinic-directory/internal/domain/entity"
	"clinic-directory/internal/usecase"

	"github.com/sirupsen/logrus"
)

// latestListings is how many listings the index page features.
const latestListings = 3

type PageHandler struct {
	listingUsecase usecase.ListingUsecase
	doctorUsecase  usecase.DoctorUsecase
	renderer       *web.Renderer
	log            *logrus.Logger
}

func NewPageHandler(listingUsecase usecase.ListingUsecase, doctorUsecase usecase.DoctorUsecase, renderer *web.Renderer, log *logrus.Logger) *PageHandler {
	return &PageHandler{
		listingUsecase: listingUsecase,
		doctorUsecase:  doctorUsecase,
		renderer:       renderer,
		log:            log,
	}
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingUsecase.GetAllListings(r.Context(), true, latestListings)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, http.StatusOK, web.PageIndex, map[string]any{"Listings": listings.Listings})
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctorUsecase.GetAllDoctors(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	var mvps []dto.DoctorResponse
	for _, d := range doctors.Doctors {
		if d.IsMVP {
			mvps = append(mvps, d)
		}
	}
	h.render(w, http.StatusOK, web.PageAbout, map[string]any{"MVPs": mvps})
}

func (h *PageHandler) Listings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingUsecase.GetAllListings(r.Context(), true, 0)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, http.StatusOK, web.PageListings, map[string]any{"Listings": listings.Listings})
}

// Listing shows one published listing; unpublished and unknown ids get the 404 page.
func (h *PageHandler) Listing(w http.ResponseWriter, r *http.Request) {
	listingID, err := pathID(r, "id")
	if err != nil {
		h.NotFound(w, r)
		return
	}

	listing, err := h.listingUsecase.GetListing(r.Context(), listingID)
	if err != nil {
		if errors.Is(err, usecase.ErrListingNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serverError(w, err)
		return
	}
	if !listing.IsPublished {
		h.NotFound(w, r)
		return
	}

	h.render(w, http.StatusOK, web.PageListing, map[string]any{"Listing": listing})
}

// Search renders the full published set; the form's query parameters are not applied.
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listingUsecase.GetAllListings(r.Context(), true, 0)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, http.StatusOK, web.PageSearch, map[string]any{
		"Listings":  listings.Listings,
		"Districts": entity.DistrictChoices,
		"RoomTypes": entity.RoomTypeChoices,
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, web.PageNotFound, map[string]any{"Message": "找不到您要的頁面"})
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.renderer.Render(w, status, page, data); err != nil {
		h.serverError(w, err)
	}
}

func (h *PageHandler) serverError(w http.ResponseWriter, err error) {
	h.log.Warnf("Failed to render page: %+v", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
