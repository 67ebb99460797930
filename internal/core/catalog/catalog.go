// Package catalog 載入並驗證靜態食譜目錄
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

//go:embed data/recipes.json
var defaultCatalog []byte

// Catalog 載入後唯讀的食譜目錄，可安全地被多個請求同時讀取
type Catalog struct {
	recipes []common.Recipe
	byID    map[int]int
	source  string
}

// Default 載入內建目錄
func Default() (*Catalog, error) {
	return Decode(bytes.NewReader(defaultCatalog), "embedded")
}

// Load 由檔案載入目錄，path 為空時使用內建目錄
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Decode(f, path)
}

// record 目錄中的一筆原始資料，指標欄位用來分辨缺少與零值
type record struct {
	ID           *int                    `json:"id"`
	Name         *string                 `json:"name"`
	Ingredients  *[]common.IngredientRef `json:"ingredients"`
	Instructions *[]string               `json:"instructions"`
	CookingTime  *int                    `json:"cookingTime"`
	Difficulty   string                  `json:"difficulty"`
	Dietary      *[]string               `json:"dietary"`
	Nutrition    common.Nutrition        `json:"nutrition"`
}

// toRecipe 檢查必要欄位並轉為食譜
func (r record) toRecipe(index int) (common.Recipe, error) {
	var missing []string
	if r.ID == nil {
		missing = append(missing, "id")
	}
	if r.Name == nil {
		missing = append(missing, "name")
	}
	if r.Ingredients == nil {
		missing = append(missing, "ingredients")
	}
	if r.Instructions == nil {
		missing = append(missing, "instructions")
	}
	if r.CookingTime == nil {
		missing = append(missing, "cookingTime")
	}
	if r.Dietary == nil {
		missing = append(missing, "dietary")
	}
	if len(missing) > 0 {
		return common.Recipe{}, fmt.Errorf("recipe #%d: missing field %s", index, strings.Join(missing, ", "))
	}

	return common.Recipe{
		ID:           *r.ID,
		Name:         *r.Name,
		Ingredients:  *r.Ingredients,
		Instructions: *r.Instructions,
		CookingTime:  *r.CookingTime,
		Difficulty:   r.Difficulty,
		Dietary:      *r.Dietary,
		Nutrition:    r.Nutrition,
	}, nil
}

// Decode 解析並驗證目錄，任何格式錯誤或缺少欄位都會直接失敗
func Decode(r io.Reader, source string) (*Catalog, error) {
	var records []record
	if err := common.DecodeJSONStrict(r, &records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", source, err)
	}

	recipes := make([]common.Recipe, 0, len(records))
	for i, rec := range records {
		recipe, err := rec.toRecipe(i)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog %s: %w", source, err)
		}
		recipes = append(recipes, recipe)
	}

	if err := Validate(recipes); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", source, err)
	}

	c := &Catalog{
		recipes: recipes,
		byID:    make(map[int]int, len(recipes)),
		source:  source,
	}
	for i, r := range recipes {
		c.byID[r.ID] = i
	}

	common.LogInfo("食譜目錄已載入",
		zap.String("source", source),
		zap.Int("recipes", len(recipes)),
	)

	return c, nil
}

// Validate 檢查每一筆食譜的欄位內容
//
// 食材名稱必須已是小寫且去除前後空白，與使用者輸入標準化後的形式一致。
func Validate(recipes []common.Recipe) error {
	seen := make(map[int]struct{}, len(recipes))
	for i, r := range recipes {
		if r.ID <= 0 {
			return fmt.Errorf("recipe #%d: id must be positive, got %d", i, r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("recipe #%d: duplicate id %d", i, r.ID)
		}
		seen[r.ID] = struct{}{}

		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("recipe %d: name is required", r.ID)
		}
		if r.CookingTime < 0 {
			return fmt.Errorf("recipe %d: cooking time must not be negative", r.ID)
		}
		for j, ing := range r.Ingredients {
			if ing.Name == "" {
				return fmt.Errorf("recipe %d: ingredient #%d has no name", r.ID, j)
			}
			if canon := strings.ToLower(strings.TrimSpace(ing.Name)); canon != ing.Name {
				return fmt.Errorf("recipe %d: ingredient #%d name %q is not canonical (want %q)", r.ID, j, ing.Name, canon)
			}
		}
	}
	return nil
}

// All 依原始順序回傳所有食譜，呼叫者不得修改
func (c *Catalog) All() []common.Recipe {
	return c.recipes
}

// Len 食譜數量
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Get 依 ID 取得食譜
func (c *Catalog) Get(id int) (common.Recipe, bool) {
	i, ok := c.byID[id]
	if !ok {
		return common.Recipe{}, false
	}
	return c.recipes[i], true
}

// Source 目錄來源
func (c *Catalog) Source() string {
	return c.source
}
