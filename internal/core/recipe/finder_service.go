package recipe

import (
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// FinderService 食譜搜尋服務，持有唯讀目錄與排序器
type FinderService struct {
	recipes []common.Recipe
	ranker  *Ranker
}

// NewFinderService 創建食譜搜尋服務
func NewFinderService(recipes []common.Recipe, missingPenalty float64) *FinderService {
	return &FinderService{
		recipes: recipes,
		ranker:  NewRanker(NewScorer(missingPenalty)),
	}
}

// Find 依查詢條件回傳排序結果
func (s *FinderService) Find(q Query) RankResult {
	dietary := q.DietaryFilter
	if dietary == "" {
		dietary = DietaryAll
	}

	result := s.ranker.Rank(s.recipes, q.Ingredients, dietary, q.TimeFilter)

	common.LogDebug("食譜搜尋完成",
		zap.Bool("browse", result.Browse),
		zap.String("dietary_filter", dietary),
		zap.Int("time_filter", q.TimeFilter),
		zap.Int("results", result.Len()),
	)

	return result
}

// CatalogSize 目錄食譜數量
func (s *FinderService) CatalogSize() int {
	return len(s.recipes)
}
