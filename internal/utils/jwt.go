package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-offline-sync/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateDeviceToken creates a signed HMAC-SHA256 JWT for a device.
//
// The token includes the following standard claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the device identifier
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Example usage:
//
//	token, err := utils.GenerateDeviceToken("go-offline-sync", "device-1", time.Hour, "secret")
func GenerateDeviceToken(issuer, deviceID string, tokenDuration time.Duration, signKey string) (models.DeviceToken, error) {
	if issuer == "" || deviceID == "" || tokenDuration == 0 || signKey == "" {
		return models.DeviceToken{}, errors.New("invalid params for generating device token")
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   deviceID,
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.DeviceToken{}, fmt.Errorf("error occurred during signing device token: %w", err)
	}

	return models.DeviceToken{Token: token, SignedString: tokenString, DeviceID: deviceID}, nil
}

// ValidateDeviceToken verifies the signature, issuer and expiry of
// tokenString and extracts the device identifier.
//
// Only HMAC signing methods are accepted.
func ValidateDeviceToken(tokenString, tokenSignKey, tokenIssuer string) (models.DeviceToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.DeviceToken{}, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.DeviceToken{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	deviceID, err := token.Claims.GetSubject()
	if err != nil {
		return models.DeviceToken{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if deviceID == "" {
		return models.DeviceToken{}, errors.New("empty subject error")
	}

	return models.DeviceToken{Token: token, SignedString: tokenString, DeviceID: deviceID}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
