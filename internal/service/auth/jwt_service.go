package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/seu-repo/clinic-assistant/internal/ports"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token revoked")
)

// Claims represents the custom JWT claims accepted by the assistant.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"` // "access" or "refresh"
}

// JWTService validates bearer tokens minted by the clinic auth service and
// tracks revocations in the cache.
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	cache    ports.Cache
	log      *zap.Logger
}

type Options struct {
	Issuer   string
	Audience string
}

func NewJWTService(secret string, opts Options, cache ports.Cache, log *zap.Logger) *JWTService {
	log.Info("JWT validator initialized",
		zap.String("issuer", opts.Issuer),
		zap.Bool("audience_check", opts.Audience != ""),
	)

	return &JWTService{
		secret:   []byte(secret),
		issuer:   opts.Issuer,
		audience: opts.Audience,
		cache:    cache,
		log:      log,
	}
}

// ValidateToken parses and verifies a token string. Expiry, issuer and
// audience are enforced by the parser.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(s.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccessToken returns the subject of a valid, unrevoked access token.
func (s *JWTService) ValidateAccessToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Type != "access" {
		return "", fmt.Errorf("%w: expected access token, got %q", ErrInvalidToken, claims.Type)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.ID != "" && s.IsTokenRevoked(ctx, claims.ID) {
		s.log.Info("revoked token presented",
			zap.String("jti", claims.ID),
			zap.String("subject", claims.Subject),
		)
		return "", ErrTokenRevoked
	}

	s.log.Debug("token validated",
		zap.String("subject", claims.Subject),
		zap.String("jti", claims.ID),
	)
	return claims.Subject, nil
}

// RevokeToken blacklists a token ID until ttl elapses; ttl should cover the
// token's remaining lifetime.
func (s *JWTService) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	err := s.cache.Set(ctx, revokedKey(tokenID), "revoked", ttl)
	if err != nil {
		s.log.Error("failed to revoke token",
			zap.String("token_id", tokenID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.log.Info("token revoked", zap.String("token_id", tokenID))
	return nil
}

// IsTokenRevoked treats cache errors as not revoked so a cache outage does
// not lock every user out.
func (s *JWTService) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	val, err := s.cache.Get(ctx, revokedKey(tokenID))
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.log.Warn("revocation lookup failed", zap.Error(err))
		}
		return false
	}
	return val == "revoked"
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked_token:%s", tokenID)
}
