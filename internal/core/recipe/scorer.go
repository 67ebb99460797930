package recipe

import (
	"strings"

	"recipe-finder/internal/pkg/common"
)

// DefaultMissingPenalty 每缺少一項食材扣除的分數
const DefaultMissingPenalty = 10.0

// Scorer 食譜評分器
type Scorer struct {
	MissingPenalty float64
}

// NewScorer 創建評分器
func NewScorer(missingPenalty float64) Scorer {
	return Scorer{MissingPenalty: missingPenalty}
}

// Score 計算食譜與使用者食材的匹配分數
//
// score = 匹配百分比 - 缺少數量 * MissingPenalty，分數可為負。
// 沒有食材的食譜匹配百分比為 0。
func (s Scorer) Score(r common.Recipe, userSet IngredientSet) common.ScoredRecipe {
	total := len(r.Ingredients)
	owned := 0
	missing := make([]string, 0, total)
	for _, ing := range r.Ingredients {
		name := strings.ToLower(strings.TrimSpace(ing.Name))
		if userSet.Has(name) {
			owned++
			continue
		}
		missing = append(missing, name)
	}

	missingCount := total - owned
	matchPercentage := 0.0
	if total > 0 {
		matchPercentage = float64(owned) / float64(total) * 100
	}

	return common.ScoredRecipe{
		Recipe:       r,
		Score:        matchPercentage - float64(missingCount)*s.MissingPenalty,
		OwnedCount:   owned,
		MissingCount: missingCount,
		MissingNames: missing,
	}
}

// Score 以預設扣分計算
func Score(r common.Recipe, userSet IngredientSet) common.ScoredRecipe {
	return NewScorer(DefaultMissingPenalty).Score(r, userSet)
}
