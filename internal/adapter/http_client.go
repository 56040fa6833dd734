package adapter

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
)

// refreshBefore is how long before expiry a device token is re-issued.
const refreshBefore = time.Minute

// deviceTokens issues and caches the device JWT attached to every request.
type deviceTokens struct {
	issuer   string
	deviceID string
	duration time.Duration
	signKey  string

	mu      sync.Mutex
	current string
	expires time.Time
	now     func() time.Time
}

func newDeviceTokens(app config.App) *deviceTokens {
	return &deviceTokens{
		issuer:   app.TokenIssuer,
		deviceID: app.DeviceID,
		duration: app.TokenDuration,
		signKey:  app.TokenSignKey,
		now:      time.Now,
	}
}

// Token returns a valid token, issuing a new one when the cached token is
// missing or about to expire. An empty token means no signing key is
// configured.
func (d *deviceTokens) Token() (string, error) {
	if d.signKey == "" {
		return "", nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if d.current != "" && now.Add(refreshBefore).Before(d.expires) {
		return d.current, nil
	}

	token, err := utils.GenerateDeviceToken(d.issuer, d.deviceID, d.duration, d.signKey)
	if err != nil {
		return "", err
	}

	d.current = token.SignedString
	d.expires = now.Add(d.duration)
	return d.current, nil
}
