package recipe

import "strings"

// IngredientSet 使用者持有的標準化食材名稱集合，每次請求重新建立
type IngredientSet map[string]struct{}

// Normalize 將逗號分隔的食材輸入轉為標準化名稱列表
//
// 每個項目去除前後空白並轉為小寫，空項目會被捨棄。
// 回傳空列表代表「不篩選」。
func Normalize(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// NewIngredientSet 由標準化名稱建立集合
func NewIngredientSet(names []string) IngredientSet {
	set := make(IngredientSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has 檢查集合是否包含該名稱
func (s IngredientSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}
