package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// AccessTokenTTL is fixed; only the refresh lifetime is configurable.
const AccessTokenTTL = 15 * time.Minute

const issuer = "property_listing_system"

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("malformed token")
	ErrWrongTokenType = errors.New("wrong token type")
)

type Claims struct {
	Type TokenType `json:"type"`
	jwt.StandardClaims
}

// UserID parses the subject claim back into a user id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

type TokenManager struct {
	key        []byte
	refreshTTL time.Duration
	// Now is the issuing clock. Tests move it to mint expired tokens.
	Now func() time.Time
}

func NewTokenManager(key string, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{key: []byte(key), refreshTTL: refreshTTL, Now: time.Now}
}

func (m *TokenManager) GenerateAccess(userID uint) (string, error) {
	return m.generate(userID, AccessToken, AccessTokenTTL)
}

func (m *TokenManager) GenerateRefresh(userID uint) (string, error) {
	return m.generate(userID, RefreshToken, m.refreshTTL)
}

func (m *TokenManager) generate(userID uint, typ TokenType, ttl time.Duration) (string, error) {
	now := m.Now()
	claims := &Claims{
		Type: typ,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Id:        uuid.NewString(),
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return tokenString, nil
}

// Validate checks signature, expiry and that the token carries the expected type.
func (m *TokenManager) Validate(tokenStr string, want TokenType) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed
			case ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
				return nil, ErrTokenInvalid
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired
			}
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
