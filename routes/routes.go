package routes

import (
	"net/http"

	"github.com/dcode-github/property_listing_api/controllers"
	"github.com/dcode-github/property_listing_api/metrics"
	"github.com/dcode-github/property_listing_api/middleware"
	"github.com/dcode-github/property_listing_api/services"
	"github.com/dcode-github/property_listing_api/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Deps struct {
	Auth     *services.AuthService
	Listings *services.ListingService
	DB       controllers.Pinger
	// Metrics may be nil, which also drops /metrics.
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()
	Routes(router, d)
	return router
}

func Routes(router *mux.Router, d Deps) {
	router.Use(middleware.RequestID(d.Log), middleware.Recover, middleware.AccessLog)
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
		router.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteFail(w, http.StatusNotFound, "Resource not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteFail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.HandleFunc("/health", controllers.Health(d.DB)).Methods(http.MethodGet)

	// Auth routes
	router.HandleFunc("/signup", controllers.Signup(d.Auth)).Methods(http.MethodPost)
	router.HandleFunc("/login", controllers.Login(d.Auth)).Methods(http.MethodPost)
	router.HandleFunc("/refresh-access", controllers.RefreshAccess(d.Auth)).Methods(http.MethodPost)

	// Property routes, access token required
	property := router.PathPrefix("/property").Subrouter()
	property.Use(middleware.Authenticate(d.Auth))
	property.HandleFunc("", controllers.GetAllProperties(d.Listings)).Methods(http.MethodGet)
	property.HandleFunc("", controllers.CreateProperty(d.Listings)).Methods(http.MethodPost)
	property.HandleFunc("/{id}", controllers.GetProperty(d.Listings)).Methods(http.MethodGet)
}
