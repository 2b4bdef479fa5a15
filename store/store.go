// Package store persists users and properties. Two backends implement the same
// interfaces: gorm (sqlite or postgres) and mongo.
package store

import (
	"context"
	"errors"

	"github.com/dcode-github/property_listing_api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserStore interface {
	// Create assigns u.ID. A unique violation on email or phone returns ErrDuplicate.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id uint) (*models.Property, error)
	List(ctx context.Context) ([]models.Property, error)
}

type Store interface {
	Users() UserStore
	Properties() PropertyStore
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
