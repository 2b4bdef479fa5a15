package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dcode-github/property_listing_api/models"
	"github.com/dcode-github/property_listing_api/services"
	"github.com/dcode-github/property_listing_api/utils"
	"github.com/dcode-github/property_listing_api/validation"
	"github.com/gorilla/mux"
)

type ContextKey string

const UserKey = ContextKey("user")

// WithUser stores the authenticated caller on ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

func CurrentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(UserKey).(*models.User)
	return u
}

// PropertyView is the public projection of a listing.
type PropertyView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       *string `json:"image,omitempty"`
	Price       int     `json:"price"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	Location    string  `json:"location"`
	IsActive    bool    `json:"is_active"`
}

func viewOf(p *models.Property) PropertyView {
	return PropertyView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		Location:    p.Location,
		IsActive:    p.IsActive,
	}
}

type MessageResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

func GetAllProperties(listings *services.ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		properties, err := listings.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		views := make([]PropertyView, 0, len(properties))
		for i := range properties {
			views = append(views, viewOf(&properties[i]))
		}
		utils.WriteJSON(w, http.StatusOK, views)
	}
}

func GetProperty(listings *services.ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
		if err != nil || id == 0 {
			writeError(w, r, services.ErrPropertyNotFound)
			return
		}

		p, err := listings.Get(r.Context(), uint(id))
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, viewOf(p))
	}
}

func CreateProperty(listings *services.ListingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		// role is checked before the body is looked at
		if err := services.Authorize(user, models.RoleAdmin); err != nil {
			writeError(w, r, err)
			return
		}

		in, err := validation.ParseCreateProperty(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, r, err)
			return
		}

		if _, err := listings.Create(r.Context(), user, in); err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, MessageResponse{
			Message: "Property created successfully",
			Status:  utils.StatusSuccess,
		})
	}
}
