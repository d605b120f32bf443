package auth

import (
	"time"

	"artisan-market/internal/apperr"
	"artisan-market/internal/config"
	"artisan-market/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType is the scheme clients present the access token under.
const TokenType = "Bearer"

// Claims is the claim set embedded in every issued token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Token is an issued credential. It is never persisted; validity is
// entirely signature- and expiry-driven.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// TokenService signs and verifies identity tokens with a symmetric key.
type TokenService struct {
	cfg config.JWTConfig
}

// NewTokenService builds a token service from JWT configuration. A
// missing signing key is a configuration error, surfaced here so the
// process fails at startup rather than on the first login.
func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, apperr.Configuration("jwt signing key is not configured")
	}
	if cfg.AccessExpiry <= 0 {
		cfg.AccessExpiry = 3 * time.Hour
	}
	return &TokenService{cfg: cfg}, nil
}

// Issue signs a token for the user: subject and role claims, a unique
// token id, and a fixed expiry window from configuration.
func (s *TokenService) Issue(user *domain.User) (*Token, error) {
	now := time.Now()
	expiry := now.Add(s.cfg.AccessExpiry)

	claims := &Claims{
		Role: user.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.New().String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	return &Token{
		AccessToken: signed,
		TokenType:   TokenType,
		ExpiresIn:   int64(expiry.Sub(now).Seconds()),
		IssuedAt:    now,
	}, nil
}

// Validate reports whether the token's signature verifies, its issuer
// and audience match configuration, and the current time falls inside
// its lifetime. It never returns an error: anything malformed or
// expired is simply invalid.
func (s *TokenService) Validate(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithIssuedAt(),
	)
	return err == nil && token.Valid
}

// Decode extracts the claim set after checking only the signature,
// skipping issuer/audience/lifetime validation. Used for introspection.
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTokenMalformed, "cannot parse token", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperr.TokenMalformed("unexpected claim set")
	}
	return claims, nil
}

// VerifyAndParse fully validates the token and returns the caller
// identity carried in its claims. The transport boundary uses this;
// downstream code trusts the resulting Identity.
func (s *TokenService) VerifyAndParse(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithIssuedAt(),
	)
	if err != nil || !token.Valid {
		return Identity{}, apperr.Wrap(apperr.KindAuthentication, "invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Identity{}, apperr.Authentication("invalid token claims")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, apperr.Authentication("invalid subject claim")
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, apperr.Authentication("invalid role claim")
	}

	return Identity{UserID: userID, Role: role}, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}
	return []byte(s.cfg.Secret), nil
}
