package controllers

import (
	"errors"
	"net/http"

	"github.com/dcode-github/property_listing_api/logger"
	"github.com/dcode-github/property_listing_api/models"
	"github.com/dcode-github/property_listing_api/services"
	"github.com/dcode-github/property_listing_api/utils"
	"github.com/dcode-github/property_listing_api/validation"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type AuthUser struct {
	ID   uint        `json:"id"`
	Role models.Role `json:"role"`
}

type AuthResponse struct {
	Message      string   `json:"message"`
	Status       string   `json:"status"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

func authResponse(message string, res *services.AuthResult) AuthResponse {
	return AuthResponse{
		Message:      message,
		Status:       utils.StatusSuccess,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         AuthUser{ID: res.User.ID, Role: res.User.Role},
	}
}

func Signup(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := validation.ParseSignup(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, r, err)
			return
		}

		res, err := auth.Signup(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusCreated, authResponse("User created successfully", res))
	}
}

func Login(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := validation.ParseLogin(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, r, err)
			return
		}

		res, err := auth.Login(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, authResponse("Login successful", res))
	}
}

// RefreshAccess reads the refresh token from the Authorization header.
func RefreshAccess(auth *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := utils.BearerToken(r)
		if err != nil {
			utils.WriteFail(w, http.StatusUnauthorized, err.Error())
			return
		}

		access, err := auth.RefreshAccess(r.Context(), token)
		if err != nil {
			if errors.Is(err, utils.ErrTokenMalformed) {
				utils.WriteFail(w, http.StatusUnprocessableEntity, "Malformed token")
				return
			}
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, RefreshResponse{AccessToken: access})
	}
}

// StatusFor maps a service error kind to the HTTP status it is reported with.
func StatusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindCreateFailed:
		return http.StatusBadRequest
	case services.KindInvalidCredentials, services.KindForbidden:
		return http.StatusForbidden
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.FailResponse{
			Message: "Validation failed",
			Status:  utils.StatusFail,
			Errors:  verrs,
		})
		return
	}

	var se *services.Error
	if errors.As(err, &se) {
		logger.From(r.Context(), nil).Debug("request rejected",
			zap.Stringer("kind", se.Kind),
			zap.String("path", r.URL.Path),
			zap.NamedError("cause", se.Err),
		)
		utils.WriteJSON(w, StatusFor(se.Kind), utils.FailResponse{
			Message: se.Message,
			Status:  utils.StatusFail,
			Errors:  se.Fields,
		})
		return
	}

	logger.From(r.Context(), nil).Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	utils.WriteFail(w, http.StatusInternalServerError, "Internal server error")
}
