package service

import (
	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/store"
)

// Services groups the reference remote's services.
type Services struct {
	RecordService     RecordService
	DeviceAuthService DeviceAuthService
	AppInfoService    AppInfoService
}

func NewServices(storages *store.Storages, cfg config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	records := NewRecordService(storages.RecordRepository, cfg.App.HashKey, logger)

	return &Services{
		RecordService:     NewRecordValidationService().Wrap(records),
		DeviceAuthService: NewDeviceAuthService(cfg.App, logger),
		AppInfoService:    appInfo,
	}, nil
}
