package service_test

import (
	"context"
	"errors"
	"tablebook/config"
	otelMocks "tablebook/infras/otel/mocks"
	"tablebook/internal/domains/table/mocks"
	"tablebook/internal/domains/table/model"
	"tablebook/internal/domains/table/service"
	cacheMocks "tablebook/shared/cache/mocks"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTableService_ListActive(t *testing.T) {
	tables := []model.Table{
		{ID: "t1", TenantID: "tenant-1", Name: "Window", Capacity: 2, Active: true},
		{ID: "t2", TenantID: "tenant-1", Name: "Booth", Capacity: 4, Active: true},
	}

	tests := []struct {
		name      string
		setupMock func(repo *mocks.MockTable, cache *cacheMocks.MockRedisCache)
		want      []model.Table
		wantErr   bool
	}{
		{
			name: "cache hit",
			setupMock: func(_ *mocks.MockTable, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), "table:active:tenant-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, value any) error {
						*(value.(*[]model.Table)) = tables //nolint:forcetypeassert

						return nil
					})
			},
			want: tables,
		},
		{
			name: "cache miss reads repository",
			setupMock: func(repo *mocks.MockTable, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil"))
				repo.EXPECT().ListActive(gomock.Any(), "tenant-1").Return(tables, nil)
			},
			want: tables,
		},
		{
			name: "repository error",
			setupMock: func(repo *mocks.MockTable, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis: nil"))
				repo.EXPECT().ListActive(gomock.Any(), "tenant-1").Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockTable(ctrl)
			cache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setupMock(repo, cache)

			svc := service.New(repo, &config.Config{}, cache, otelMocks.NewOtel())

			got, err := svc.ListActive(context.Background(), "tenant-1")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
