// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/mock"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

const testHashKey = "hash-key"

func testOperation() models.RemoteOperation {
	return models.RemoteOperation{
		IdempotencyKey: "4b0b1a0c-7f61-4a5e-8c55-7f1a3b9d2e10",
		Operation:      models.OperationCreate,
		Collection:     models.CollectionHistory,
		Key:            "h1",
		Payload:        json.RawMessage(`{"expr":"2+2","result":4}`),
		Timestamp:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordService_Apply(t *testing.T) {
	op := testOperation()
	validHash := utils.NewContentHasher(testHashKey).HashHex(op.Payload)

	tests := []struct {
		name     string
		deviceID string
		hash     string
		setup    func(r *mock.MockRecordRepositoryMockRecorder)
		wantErr  error
	}{
		{
			name:     "applied",
			deviceID: "device-1",
			hash:     validHash,
			setup: func(r *mock.MockRecordRepositoryMockRecorder) {
				r.Apply(gomock.Any(), op, "device-1", validHash).Return(nil)
			},
		},
		{
			name:     "without hash",
			deviceID: "device-1",
			setup: func(r *mock.MockRecordRepositoryMockRecorder) {
				r.Apply(gomock.Any(), op, "device-1", "").Return(nil)
			},
		},
		{
			name:     "replay is success",
			deviceID: "device-1",
			hash:     validHash,
			setup: func(r *mock.MockRecordRepositoryMockRecorder) {
				r.Apply(gomock.Any(), op, "device-1", validHash).Return(store.ErrAlreadyApplied)
			},
		},
		{
			name:     "hash mismatch",
			deviceID: "device-1",
			hash:     utils.NewContentHasher("other-key").HashHex(op.Payload),
			wantErr:  ErrHashMismatch,
		},
		{
			name:    "no device",
			hash:    validHash,
			wantErr: ErrNoDeviceID,
		},
		{
			name:     "storage failure",
			deviceID: "device-1",
			setup: func(r *mock.MockRecordRepositoryMockRecorder) {
				r.Apply(gomock.Any(), op, "device-1", "").Return(store.ErrStorageFailure)
			},
			wantErr: store.ErrStorageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockRecordRepository(ctrl)
			if tt.setup != nil {
				tt.setup(repo.EXPECT())
			}

			svc := NewRecordService(repo, testHashKey, logger.Nop())
			err := svc.Apply(context.Background(), op, tt.deviceID, tt.hash)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRecordService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRecordRepository(ctrl)
	svc := NewRecordService(repo, testHashKey, logger.Nop())
	ctx := context.Background()

	want := models.RemoteRecord{Collection: models.CollectionSettings, Key: "theme", Payload: json.RawMessage(`"dark"`)}
	repo.EXPECT().Get(gomock.Any(), models.CollectionSettings, "theme").Return(want, nil)
	repo.EXPECT().Get(gomock.Any(), models.CollectionSettings, "gone").Return(models.RemoteRecord{}, store.ErrRecordNotFound)
	repo.EXPECT().Get(gomock.Any(), models.CollectionSettings, "broken").Return(models.RemoteRecord{}, errors.New("boom"))

	got, err := svc.Get(ctx, models.CollectionSettings, "theme")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Get(ctx, models.CollectionSettings, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(ctx, models.CollectionSettings, "broken")
	assert.EqualError(t, err, "boom")
}
