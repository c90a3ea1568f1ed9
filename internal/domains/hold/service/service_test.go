package service_test

import (
	"context"
	"errors"
	"tablebook/config"
	otelMocks "tablebook/infras/otel/mocks"
	"tablebook/internal/domains/hold/mocks"
	"tablebook/internal/domains/hold/model"
	"tablebook/internal/domains/hold/model/dto"
	"tablebook/internal/domains/hold/service"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func futureSlot() string {
	return time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute).Format(time.RFC3339)
}

func TestHoldService_Create(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.CreateHoldRequest
		setupMock  func(repo *mocks.MockHold)
		wantReason string
	}{
		{
			name: "creates hold with default ttl and duration",
			req:  dto.CreateHoldRequest{TenantID: "tenant-1", PartySize: 2, Slot: dto.Slot{Time: futureSlot(), AvailableTables: 3}},
			setupMock: func(repo *mocks.MockHold) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, hold model.Hold) error {
						assert.Equal(t, "tenant-1", hold.TenantID)
						assert.Equal(t, constant.DefaultDurationMinutes, hold.DurationMinutes)
						assert.WithinDuration(t, hold.CreatedAt.Add(10*time.Minute), hold.ExpiresAt, time.Second)
						assert.Nil(t, hold.TableID)

						return nil
					})
			},
		},
		{
			name:       "missing party size",
			req:        dto.CreateHoldRequest{TenantID: "tenant-1", Slot: dto.Slot{Time: futureSlot()}},
			setupMock:  func(_ *mocks.MockHold) {},
			wantReason: failure.ReasonHoldInvalid,
		},
		{
			name:       "negative party size",
			req:        dto.CreateHoldRequest{TenantID: "tenant-1", PartySize: -1, Slot: dto.Slot{Time: futureSlot()}},
			setupMock:  func(_ *mocks.MockHold) {},
			wantReason: failure.ReasonHoldInvalid,
		},
		{
			name:       "missing slot time",
			req:        dto.CreateHoldRequest{TenantID: "tenant-1", PartySize: 2},
			setupMock:  func(_ *mocks.MockHold) {},
			wantReason: failure.ReasonHoldInvalid,
		},
		{
			name:       "malformed slot time",
			req:        dto.CreateHoldRequest{TenantID: "tenant-1", PartySize: 2, Slot: dto.Slot{Time: "19:00"}},
			setupMock:  func(_ *mocks.MockHold) {},
			wantReason: failure.ReasonHoldInvalid,
		},
		{
			name:       "slot in the past",
			req:        dto.CreateHoldRequest{TenantID: "tenant-1", PartySize: 2, Slot: dto.Slot{Time: "2020-01-01T19:00:00Z"}},
			setupMock:  func(_ *mocks.MockHold) {},
			wantReason: failure.ReasonHoldInvalid,
		},
		{
			name: "store rejects the write",
			req:  dto.CreateHoldRequest{TenantID: "tenant-1", PartySize: 2, Slot: dto.Slot{Time: futureSlot()}},
			setupMock: func(repo *mocks.MockHold) {
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("relation does not exist"))
			},
			wantReason: failure.ReasonHoldFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockHold(ctrl)
			tt.setupMock(repo)

			svc := service.New(repo, &config.Config{}, otelMocks.NewOtel())

			res, err := svc.Create(context.Background(), tt.req)
			if tt.wantReason != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.NotEmpty(t, res.HoldID)
			assert.NotEmpty(t, res.ExpiresAt)
		})
	}
}

func TestHoldService_CreateUsesConfiguredTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := &config.Config{}
	cfg.Reservation.HoldTTLMinutes = 5
	cfg.Reservation.DefaultDurationMinutes = 90

	repo := mocks.NewMockHold(ctrl)
	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, hold model.Hold) error {
			assert.Equal(t, 5*time.Minute, hold.ExpiresAt.Sub(hold.CreatedAt))
			assert.Equal(t, 90, hold.DurationMinutes)
			assert.Equal(t, "t-4", hold.TableIDValue())

			return nil
		})

	svc := service.New(repo, cfg, otelMocks.NewOtel())

	_, err := svc.Create(context.Background(), dto.CreateHoldRequest{
		TenantID:  "tenant-1",
		PartySize: 4,
		Slot:      dto.Slot{Time: futureSlot()},
		TableID:   "t-4",
	})
	require.NoError(t, err)
}

func TestHoldService_PurgeExpired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockHold(ctrl)
	svc := service.New(repo, &config.Config{}, otelMocks.NewOtel())

	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(3), nil)

	purged, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)

	repo.EXPECT().DeleteExpired(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("timeout"))

	_, err = svc.PurgeExpired(context.Background())
	assert.Error(t, err)
}
