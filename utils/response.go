package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

var (
	ErrMissingAuthHeader = errors.New("missing Authorization header")
	ErrBadAuthHeader     = errors.New("invalid Authorization header format")
)

type FailResponse struct {
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteFail(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, FailResponse{Message: message, Status: StatusFail})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	tokenHeader := r.Header.Get("Authorization")
	if tokenHeader == "" {
		return "", ErrMissingAuthHeader
	}

	tokenParts := strings.Fields(tokenHeader)
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
		return "", ErrBadAuthHeader
	}
	return tokenParts[1], nil
}
