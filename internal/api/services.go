package api

import (
	"fmt"

	"recipe-finder/internal/core/ai/cache"
	"recipe-finder/internal/core/ai/clarifai"
	"recipe-finder/internal/core/ai/queue"
	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/image"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Services 路由使用的服務集合
type Services struct {
	Catalog     *catalog.Catalog
	Finder      *recipe.FinderService
	Ingredients *recipe.IngredientService
	Cache       cache.Store
	Queue       *queue.Manager

	closers []func()
}

// NewServices 依設定建立所有服務，store 可為 nil（快取停用）
func NewServices(cfg *config.Config, cat *catalog.Catalog, store cache.Store) (*Services, error) {
	if cat == nil {
		return nil, fmt.Errorf("recipe catalog is required")
	}

	if cfg.Clarifai.APIKey == "" {
		common.LogWarn("CLARIFAI_API_KEY is not set, ingredient recognition requests will fail")
	}

	client := clarifai.NewClient(&cfg.Clarifai)
	q := queue.NewManager(&cfg.Queue, client)
	imageSvc := image.NewService(cfg.Image.MaxSizeBytes)

	// 轉為介面前先判斷，避免 nil 實作變成非 nil 介面
	var labelCache recipe.LabelCache
	if store != nil {
		labelCache = store
	}

	s := &Services{
		Catalog:     cat,
		Finder:      recipe.NewFinderService(cat.All(), cfg.Matching.MissingPenalty),
		Ingredients: recipe.NewIngredientService(q, labelCache, imageSvc, cfg.Recognition.ConfidenceThreshold),
		Cache:       store,
		Queue:       q,
	}
	s.closers = append(s.closers, q.Close, func() { _ = client.Close() })

	common.LogInfo("Services initialized",
		zap.Int("catalog_size", cat.Len()),
		zap.Bool("cache_enabled", store != nil),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.String("model", cfg.Clarifai.ModelID),
		zap.Float64("confidence_threshold", cfg.Recognition.ConfidenceThreshold),
		zap.Float64("missing_penalty", cfg.Matching.MissingPenalty),
	)

	return s, nil
}

// Close 釋放服務資源
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
