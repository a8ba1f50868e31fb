package http

import (
	"net/http"

	"clinic-directory/internal/delivery/http/handler"
	"clinic-directory/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	doctorHandler       *handler.DoctorHandler
	subjectHandler      *handler.SubjectHandler
	listingHandler      *handler.ListingHandler
	auditLogHandler     *handler.AuditLogHandler
	pageHandler         *handler.PageHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	observeMiddleware   *middleware.ObserveMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	subjectHandler *handler.SubjectHandler,
	listingHandler *handler.ListingHandler,
	auditLogHandler *handler.AuditLogHandler,
	pageHandler *handler.PageHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	observeMiddleware *middleware.ObserveMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		doctorHandler:       doctorHandler,
		subjectHandler:      subjectHandler,
		listingHandler:      listingHandler,
		auditLogHandler:     auditLogHandler,
		pageHandler:         pageHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		observeMiddleware:   observeMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// HTML pages
	r.router.HandleFunc("/", r.pageHandler.Index).Methods(http.MethodGet)
	r.router.HandleFunc("/about", r.pageHandler.About).Methods(http.MethodGet)
	r.router.HandleFunc("/listings", r.pageHandler.Listings).Methods(http.MethodGet)
	r.router.HandleFunc("/listings/search", r.pageHandler.Search).Methods(http.MethodGet)
	r.router.HandleFunc("/listings/{id:[0-9]+}", r.pageHandler.Listing).Methods(http.MethodGet)
	// mux skips Use middleware for unmatched routes.
	r.router.NotFoundHandler = r.observeMiddleware.Handle(r.corsMiddleware.Handle(http.HandlerFunc(r.pageHandler.NotFound)))

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public read routes
	public := api.NewRoute().Subrouter()
	public.Use(r.rateLimitMiddleware.Handle)
	public.HandleFunc("/listings", r.listingHandler.GetAllListings).Methods(http.MethodGet)
	public.HandleFunc("/listings/{id}", r.listingHandler.GetListing).Methods(http.MethodGet)
	public.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	public.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	public.HandleFunc("/subjects", r.subjectHandler.GetAllSubjects).Methods(http.MethodGet)
	public.HandleFunc("/subjects/{id}", r.subjectHandler.GetSubject).Methods(http.MethodGet)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Subject management (admin)
	admin.HandleFunc("/subjects", r.subjectHandler.CreateSubject).Methods(http.MethodPost)
	admin.HandleFunc("/subjects/{id}", r.subjectHandler.UpdateSubject).Methods(http.MethodPut)
	admin.HandleFunc("/subjects/{id}", r.subjectHandler.DeleteSubject).Methods(http.MethodDelete)

	// Listing management (admin)
	admin.HandleFunc("/listings", r.listingHandler.GetAllListingsDraft).Methods(http.MethodGet)
	admin.HandleFunc("/listings/{id}", r.listingHandler.GetListingDraft).Methods(http.MethodGet)
	admin.HandleFunc("/listings", r.listingHandler.CreateListing).Methods(http.MethodPost)
	admin.HandleFunc("/listings/{id}", r.listingHandler.UpdateListing).Methods(http.MethodPut)
	admin.HandleFunc("/listings/{id}", r.listingHandler.DeleteListing).Methods(http.MethodDelete)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.observeMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
