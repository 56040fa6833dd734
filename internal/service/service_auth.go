package service

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/golang-jwt/jwt/v5"
)

// deviceAuthService is the concrete implementation of DeviceAuthService.
// Devices share the signing key with the remote and sign their own tokens.
type deviceAuthService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewDeviceAuthService constructs a DeviceAuthService populated with security
// parameters from cfg.
func NewDeviceAuthService(cfg config.App, logger *logger.Logger) DeviceAuthService {
	return &deviceAuthService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// ParseToken validates and parses a raw JWT string. An expired token yields
// ErrTokenIsExpired, every other failure ErrInvalidToken.
func (a *deviceAuthService) ParseToken(ctx context.Context, tokenString string) (models.DeviceToken, error) {
	token, err := utils.ValidateDeviceToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return models.DeviceToken{}, ErrTokenIsExpired
	}
	if err != nil {
		logger.FromContextOr(ctx, a.logger).Debug().
			Err(err).
			Str("func", "deviceAuthService.ParseToken").
			Msg("device token rejected")
		return models.DeviceToken{}, ErrInvalidToken
	}

	return token, nil
}

func (a *deviceAuthService) IssueToken(ctx context.Context, deviceID string) (models.DeviceToken, error) {
	if deviceID == "" {
		return models.DeviceToken{}, ErrNoDeviceID
	}
	return utils.GenerateDeviceToken(a.tokenIssuer, deviceID, a.tokenDuration, a.tokenSignKey)
}
