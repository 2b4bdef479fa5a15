// Package storetest opens throwaway sqlite stores for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/dcode-github/property_listing_api/config"
	"github.com/dcode-github/property_listing_api/models"
	"github.com/dcode-github/property_listing_api/store"
	"github.com/dcode-github/property_listing_api/utils"
	"go.uber.org/zap"
)

// New returns a migrated in-memory store that is closed with the test.
func New(t testing.TB) *store.GormStore {
	t.Helper()

	db, err := config.OpenGorm("sqlite", "file::memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s := store.NewGorm(db)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// CreateUser inserts a user with the given role and password "pw".
func CreateUser(t testing.TB, users store.UserStore, email, phone string, role models.Role) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &models.User{FirstName: "Test", LastName: "User", Email: email, Phone: phone, Role: role, Password: hash}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
