package common

// IngredientRef 食譜中的食材
type IngredientRef struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Nutrition 營養資訊
type Nutrition struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
}

// Recipe 食譜（靜態目錄載入後唯讀）
type Recipe struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Ingredients  []IngredientRef `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	CookingTime  int             `json:"cookingTime"`
	Difficulty   string          `json:"difficulty"`
	Dietary      []string        `json:"dietary"`
	Nutrition    Nutrition       `json:"nutrition"`
}

// HasDietaryTag 檢查食譜是否帶有指定的飲食標籤
func (r Recipe) HasDietaryTag(tag string) bool {
	for _, d := range r.Dietary {
		if d == tag {
			return true
		}
	}
	return false
}

// ScoredRecipe 評分後的食譜
type ScoredRecipe struct {
	Recipe
	Score        float64  `json:"score"`
	OwnedCount   int      `json:"ownedIngredients"`
	MissingCount int      `json:"missingIngredients"`
	MissingNames []string `json:"missingIngredientNames"`
}

// FindRecipesRequest 食譜搜尋請求
type FindRecipesRequest struct {
	Ingredients   *string     `json:"ingredients"`
	DietaryFilter string      `json:"dietaryFilter,omitempty"`
	TimeFilter    interface{} `json:"timeFilter,omitempty"`
}

// IdentifyIngredientsRequest 食材識別請求
type IdentifyIngredientsRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

// IdentifyIngredientsResponse 食材識別響應
type IdentifyIngredientsResponse struct {
	Ingredients []string `json:"ingredients"`
}

// ImageSearchRequest 以圖片搜尋食譜的請求
type ImageSearchRequest struct {
	ImageBase64   string      `json:"imageBase64"`
	DietaryFilter string      `json:"dietaryFilter,omitempty"`
	TimeFilter    interface{} `json:"timeFilter,omitempty"`
}

// ImageSearchResponse 以圖片搜尋食譜的響應
type ImageSearchResponse struct {
	Ingredients []string    `json:"ingredients"`
	Recipes     interface{} `json:"recipes"`
}
