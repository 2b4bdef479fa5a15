package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dcode-github/property_listing_api/logger"
	"github.com/dcode-github/property_listing_api/metrics"
	"github.com/dcode-github/property_listing_api/models"
	"github.com/dcode-github/property_listing_api/notify"
	"github.com/dcode-github/property_listing_api/store"
	"github.com/dcode-github/property_listing_api/utils"
	"github.com/dcode-github/property_listing_api/validation"
	"go.uber.org/zap"
)

type AuthService struct {
	users    store.UserStore
	tokens   *utils.TokenManager
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      *zap.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService wires the auth operations. m may be nil.
func NewAuthService(users store.UserStore, tokens *utils.TokenManager, notifier notify.Notifier, m *metrics.Metrics, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Signup creates a member account. Any requested role is ignored upstream.
func (s *AuthService) Signup(ctx context.Context, in validation.SignupInput) (*AuthResult, error) {
	log := logger.From(ctx, s.log)

	u, err := s.register(ctx, in, models.RoleMember)
	if err != nil {
		s.metrics.Auth("signup", "fail")
		return nil, err
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, notify.Welcome(u)); err != nil {
		log.Warn("welcome notification not queued", zap.Uint("user_id", u.ID), zap.Error(err))
		s.metrics.NotificationFailed(err)
	}

	s.metrics.Auth("signup", "success")
	log.Info("user signed up", zap.Uint("user_id", u.ID))
	return res, nil
}

// CreateAdmin provisions an admin account. It is only reachable from the CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, in validation.SignupInput) (*models.User, error) {
	return s.register(ctx, in, models.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, in validation.SignupInput, role models.Role) (*models.User, error) {
	log := logger.From(ctx, s.log)
	if !role.Valid() {
		return nil, wrap(ErrUserCreateFailed, fmt.Errorf("unknown role %q", role))
	}

	// email first, then phone
	if err := s.ensureFree(ctx, s.users.FindByEmail, in.Email, ErrEmailTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.users.FindByPhone, in.Phone, ErrPhoneTaken); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		log.Error("hash password", zap.Error(err))
		return nil, wrap(ErrUserCreateFailed, err)
	}

	u := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     in.Email,
		Role:      role,
		Password:  hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// a concurrent signup can win the unique index between the checks and here
		log.Error("create user", zap.Error(err), zap.Bool("duplicate", errors.Is(err, store.ErrDuplicate)))
		return nil, wrap(ErrUserCreateFailed, err)
	}
	return u, nil
}

func (s *AuthService) ensureFree(ctx context.Context, find func(context.Context, string) (*models.User, error), value string, taken *Error) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		logger.From(ctx, s.log).Error("lookup user", zap.Error(err))
		return wrap(ErrUserCreateFailed, err)
	}
}

func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("find user by email: %w", err)
		}
		// compare anyway so unknown emails cost as much as wrong passwords
		utils.CheckPasswordHash(in.Password, s.dummy())
		s.metrics.Auth("login", "fail")
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(in.Password, u.Password) {
		s.metrics.Auth("login", "fail")
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.metrics.Auth("login", "success")
	return res, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = utils.HashPassword("property-listing-dummy-password")
	})
	return s.dummyHash
}

// RefreshAccess mints a new access token from a refresh token. The refresh
// token itself is left untouched.
func (s *AuthService) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Validate(refreshToken, utils.RefreshToken)
	if err != nil {
		s.metrics.Auth("refresh", "fail")
		return "", wrap(ErrUnauthenticated, err)
	}
	id, err := claims.UserID()
	if err != nil {
		s.metrics.Auth("refresh", "fail")
		return "", wrap(ErrUnauthenticated, err)
	}

	access, err := s.tokens.GenerateAccess(id)
	if err != nil {
		return "", err
	}
	s.metrics.Auth("refresh", "success")
	return access, nil
}

// Authenticate resolves an access token to the stored user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Validate(accessToken, utils.AccessToken)
	if err != nil {
		return nil, wrap(ErrUnauthenticated, err)
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, wrap(ErrUnauthenticated, err)
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, wrap(ErrUnauthenticated, err)
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return u, nil
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	access, err := s.tokens.GenerateAccess(u.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefresh(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: access, RefreshToken: refresh, User: u}, nil
}

// Authorize checks the caller holds role.
func Authorize(u *models.User, role models.Role) error {
	if u == nil {
		return ErrUnauthenticated
	}
	if u.Role != role {
		return ErrForbidden
	}
	return nil
}
