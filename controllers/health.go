package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/dcode-github/property_listing_api/logger"
	"github.com/dcode-github/property_listing_api/utils"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status"`
}

func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.From(r.Context(), nil).Warn("health check failed", zap.Error(err))
			utils.WriteFail(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		utils.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
