package recipe

import (
	"sort"

	"recipe-finder/internal/pkg/common"
)

// 篩選條件的哨兵值
const (
	DietaryAll = "all" // 不限飲食標籤
	AnyTime    = 0     // 不限烹調時間
)

// RankResult 排序結果
//
// Browse 為 true 時輸入沒有任何食材，Recipes 為未篩選的完整目錄；
// 否則 Matches 為篩選並排序後的評分食譜。
type RankResult struct {
	Browse  bool
	Recipes []common.Recipe
	Matches []common.ScoredRecipe
}

// Payload 回傳對外輸出的資料
func (r RankResult) Payload() interface{} {
	if r.Browse {
		return r.Recipes
	}
	return r.Matches
}

// Len 結果數量
func (r RankResult) Len() int {
	if r.Browse {
		return len(r.Recipes)
	}
	return len(r.Matches)
}

// Ranker 食譜排序器
type Ranker struct {
	scorer Scorer
}

// NewRanker 創建排序器
func NewRanker(scorer Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank 依使用者食材與篩選條件排序食譜
func (rk *Ranker) Rank(recipes []common.Recipe, rawInput, dietaryFilter string, timeFilter int) RankResult {
	tokens := Normalize(rawInput)

	// 沒有輸入食材時直接回傳完整目錄，不套用任何篩選
	if len(tokens) == 0 {
		return RankResult{Browse: true, Recipes: recipes}
	}

	userSet := NewIngredientSet(tokens)
	matches := make([]common.ScoredRecipe, 0, len(recipes))
	for _, r := range recipes {
		scored := rk.scorer.Score(r, userSet)
		if !admit(scored, dietaryFilter, timeFilter) {
			continue
		}
		matches = append(matches, scored)
	}

	// 穩定排序，同分時保留目錄順序
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return RankResult{Matches: matches}
}

// admit 檢查評分後的食譜是否通過篩選
func admit(s common.ScoredRecipe, dietaryFilter string, timeFilter int) bool {
	if s.OwnedCount == 0 {
		return false
	}
	if dietaryFilter != DietaryAll && !s.HasDietaryTag(dietaryFilter) {
		return false
	}
	if timeFilter != AnyTime && s.CookingTime > timeFilter {
		return false
	}
	return true
}
