package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dcode-github/property_listing_api/cache"
	"github.com/dcode-github/property_listing_api/logger"
	"github.com/dcode-github/property_listing_api/metrics"
	"github.com/dcode-github/property_listing_api/models"
	"github.com/dcode-github/property_listing_api/store"
	"github.com/dcode-github/property_listing_api/validation"
	"go.uber.org/zap"
)

const (
	cachePrefix  = "property:"
	cacheKeyList = cachePrefix + "all"
	// cacheGenKey counts listing writes. It sits outside cachePrefix so
	// invalidation never resets it.
	cacheGenKey = "gen:property"
)

func cacheKeyProperty(id uint) string {
	return cachePrefix + strconv.FormatUint(uint64(id), 10)
}

type ListingService struct {
	properties store.PropertyStore
	users      store.UserStore
	cache      cache.Cache
	ttl        time.Duration
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewListingService(properties store.PropertyStore, users store.UserStore, c cache.Cache, ttl time.Duration, m *metrics.Metrics, log *zap.Logger) *ListingService {
	return &ListingService{
		properties: properties,
		users:      users,
		cache:      c,
		ttl:        ttl,
		metrics:    m,
		log:        log,
	}
}

// List returns every property, unordered and unfiltered.
func (s *ListingService) List(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	if s.cached(ctx, cacheKeyList, &properties) {
		return properties, nil
	}

	gen, fill := s.generation(ctx)
	properties, err := s.properties.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	if fill {
		s.remember(ctx, cacheKeyList, properties, gen)
	}
	return properties, nil
}

func (s *ListingService) Get(ctx context.Context, id uint) (*models.Property, error) {
	key := cacheKeyProperty(id)

	var p models.Property
	if s.cached(ctx, key, &p) {
		return &p, nil
	}

	gen, fill := s.generation(ctx)
	found, err := s.properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("find property %d: %w", id, err)
	}
	if fill {
		s.remember(ctx, key, found, gen)
	}
	return found, nil
}

// Create stores a listing on behalf of in.OwnerID. Only admins may create.
func (s *ListingService) Create(ctx context.Context, caller *models.User, in validation.CreatePropertyInput) (*models.Property, error) {
	log := logger.From(ctx, s.log)

	if err := Authorize(caller, models.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationError(map[string]string{"user_id": "user_id does not match an existing user"})
		}
		log.Error("lookup property owner", zap.Uint("owner_id", in.OwnerID), zap.Error(err))
		return nil, wrap(ErrPropertyCreate, err)
	}

	p := &models.Property{
		Name:        in.Name,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		Bedrooms:    in.Bedrooms,
		Bathrooms:   in.Bathrooms,
		Location:    in.Location,
		IsActive:    in.IsActive,
		UserID:      in.OwnerID,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		log.Error("create property", zap.Uint("owner_id", in.OwnerID), zap.Error(err))
		return nil, wrap(ErrPropertyCreate, err)
	}

	// bump before deleting so a read that started earlier cannot refill stale data
	if _, err := s.cache.Incr(ctx, cacheGenKey); err != nil {
		log.Warn("property cache generation bump failed", zap.Error(err))
	}
	if n, err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		log.Warn("property cache invalidation failed", zap.Error(err))
	} else {
		log.Debug("property cache invalidated", zap.Int("keys", n))
	}

	log.Info("property created", zap.Uint("property_id", p.ID), zap.Uint("owner_id", p.UserID), zap.Uint("by", caller.ID))
	return p, nil
}

func (s *ListingService) cached(ctx context.Context, key string, dst any) bool {
	val, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.From(ctx, s.log).Warn("cache get", zap.String("key", key), zap.Error(err))
		return false
	}
	if ok {
		if err := json.Unmarshal(val, dst); err == nil {
			s.metrics.Cache(true)
			return true
		}
	}
	s.metrics.Cache(false)
	return false
}

// generation reads the write counter before a store read. fill is false when
// the counter is unreadable, in which case the result is not cached.
func (s *ListingService) generation(ctx context.Context) (gen int64, fill bool) {
	gen, err := s.cache.Counter(ctx, cacheGenKey)
	if err != nil {
		logger.From(ctx, s.log).Warn("cache generation", zap.Error(err))
		return 0, false
	}
	return gen, true
}

// remember stores v read at generation gen. If a create landed in between, the
// entry is dropped again: either the create's invalidation already ran and the
// counter moved, or it runs after this Set and deletes the entry itself.
func (s *ListingService) remember(ctx context.Context, key string, v any, gen int64) {
	log := logger.From(ctx, s.log)

	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.ttl); err != nil {
		log.Warn("cache set", zap.String("key", key), zap.Error(err))
		return
	}

	cur, err := s.cache.Counter(ctx, cacheGenKey)
	if err == nil && cur == gen {
		return
	}
	if _, err := s.cache.DeletePrefix(ctx, cachePrefix); err != nil {
		log.Warn("drop stale cache fill", zap.String("key", key), zap.Error(err))
	}
}
