package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcode-github/property_listing_api/models"
	"gorm.io/gorm"
)

type GormStore struct {
	db         *gorm.DB
	users      *gormUserStore
	properties *gormPropertyStore
}

// NewGorm expects db to be opened with TranslateError so unique violations
// surface as gorm.ErrDuplicatedKey.
func NewGorm(db *gorm.DB) *GormStore {
	return &GormStore{
		db:         db,
		users:      &gormUserStore{db: db},
		properties: &gormPropertyStore{db: db},
	}
}

func (s *GormStore) Users() UserStore          { return s.users }
func (s *GormStore) Properties() PropertyStore { return s.properties }

func (s *GormStore) Migrate(ctx context.Context) error {
	// users first: properties carries the foreign key.
	if err := s.db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Property{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

type gormUserStore struct{ db *gorm.DB }

func (r *gormUserStore) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *gormUserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *gormUserStore) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *gormUserStore) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *gormUserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, translate(err)
}

type gormPropertyStore struct{ db *gorm.DB }

func (r *gormPropertyStore) Create(ctx context.Context, p *models.Property) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(p).Error)
}

func (r *gormPropertyStore) FindByID(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *gormPropertyStore) List(ctx context.Context) ([]models.Property, error) {
	properties := []models.Property{}
	if err := r.db.WithContext(ctx).Find(&properties).Error; err != nil {
		return nil, translate(err)
	}
	return properties, nil
}
