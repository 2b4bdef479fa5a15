package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dcode-github/property_listing_api/controllers"
	"github.com/dcode-github/property_listing_api/logger"
	"github.com/dcode-github/property_listing_api/models"
	"github.com/dcode-github/property_listing_api/services"
	"github.com/dcode-github/property_listing_api/utils"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// Authenticate rejects requests without a valid access token and stores the
// resolved user on the request context.
func Authenticate(auth Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.From(r.Context(), nil)

			token, err := utils.BearerToken(r)
			if err != nil {
				log.Debug("rejected request", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
				utils.WriteFail(w, http.StatusUnauthorized, err.Error())
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, services.ErrUnauthenticated) {
					log.Debug("invalid token", zap.Error(err))
					utils.WriteFail(w, http.StatusUnauthorized, services.ErrUnauthenticated.Message)
					return
				}
				log.Error("authenticate", zap.Error(err))
				utils.WriteFail(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := controllers.WithUser(r.Context(), user)
			ctx = logger.ToContext(ctx, log.With(zap.Uint("user_id", user.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
