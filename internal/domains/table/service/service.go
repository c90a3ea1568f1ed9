package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Table=MockTableService

import (
	"context"
	"fmt"
	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/internal/domains/table/model"
	"tablebook/internal/domains/table/repository"
	"tablebook/shared"
	"tablebook/shared/cache"
	"tablebook/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	cacheActiveTables = "table:active"
)

type Table interface {
	ListActive(ctx context.Context, tenantID string) ([]model.Table, error)
}

type serviceImpl struct {
	repo  repository.Table
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Table, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Table {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// ListActive reads through the cache; the table layout changes rarely and
// carries no slot state.
func (s *serviceImpl) ListActive(ctx context.Context, tenantID string) (res []model.Table, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListActive")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheActiveTables, tenantID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for active tables")

		return res, nil
	}

	res, err = s.repo.ListActive(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to list active tables")

		return nil, fmt.Errorf("failed to list active tables: %w", err)
	}

	if s.cfg.Cache.TTL > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save active tables to cache")
			}
		}()
	}

	return res, nil
}
