package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DeviceToken wraps a device JWT.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access. The "sub" claim
// carries the device identifier.
type DeviceToken struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// DeviceID is the "sub" claim, cached after parsing.
	DeviceID string `json:"-"`
}

// GetDeviceID returns the device identifier from the "sub" claim.
func (t *DeviceToken) GetDeviceID() (string, error) {
	deviceID, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting device id from token: %w", err)
	}
	if deviceID == "" {
		return "", errors.New("empty device id in token")
	}
	return deviceID, nil
}

// String returns the compact JWS serialization of the token.
func (t *DeviceToken) String() string {
	return t.SignedString
}
