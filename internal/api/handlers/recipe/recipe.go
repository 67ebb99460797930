package recipe

import (
	"net/http"
	"strconv"

	"recipe-finder/internal/core/catalog"
	recipeService "recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜處理程序
type Handler struct {
	finder      *recipeService.FinderService
	ingredients *recipeService.IngredientService
	catalog     *catalog.Catalog
}

// NewHandler 創建新的食譜處理程序
func NewHandler(finder *recipeService.FinderService, ingredients *recipeService.IngredientService, cat *catalog.Catalog) *Handler {
	return &Handler{
		finder:      finder,
		ingredients: ingredients,
		catalog:     cat,
	}
}

// HandleFindRecipes 依文字輸入的食材搜尋食譜
func (h *Handler) HandleFindRecipes(c *gin.Context) {
	requestID := requestid.Get(c)

	var req common.FindRecipesRequest
	if !bindRequest(c, &req) {
		return
	}
	if req.Ingredients == nil {
		writeError(c, common.ErrInvalidRequest, "ingredients is required")
		return
	}

	result := h.finder.Find(recipeService.Query{
		Ingredients:   *req.Ingredients,
		DietaryFilter: req.DietaryFilter,
		TimeFilter:    parseTimeFilter(req.TimeFilter),
	})

	common.LogInfo("食譜搜尋完成",
		zap.String("request_id", requestID),
		zap.Bool("browse", result.Browse),
		zap.Int("results", result.Len()),
	)

	c.JSON(http.StatusOK, result.Payload())
}

// HandleIdentifyIngredients 由圖片識別食材
func (h *Handler) HandleIdentifyIngredients(c *gin.Context) {
	requestID := requestid.Get(c)

	var req common.IdentifyIngredientsRequest
	if !bindRequest(c, &req) {
		return
	}
	if req.ImageBase64 == "" {
		writeError(c, common.ErrInvalidRequest, "Image data is required")
		return
	}

	names, err := h.ingredients.Identify(c.Request.Context(), req.ImageBase64)
	if err != nil {
		common.LogError("Failed to identify ingredients",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		writeError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, common.IdentifyIngredientsResponse{Ingredients: names})
}

// HandleFindRecipesByImage 識別圖片食材後直接搜尋食譜
func (h *Handler) HandleFindRecipesByImage(c *gin.Context) {
	requestID := requestid.Get(c)

	var req common.ImageSearchRequest
	if !bindRequest(c, &req) {
		return
	}
	if req.ImageBase64 == "" {
		writeError(c, common.ErrInvalidRequest, "Image data is required")
		return
	}

	names, err := h.ingredients.Identify(c.Request.Context(), req.ImageBase64)
	if err != nil {
		common.LogError("Failed to identify ingredients",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		writeError(c, err, "")
		return
	}

	result := h.finder.Find(recipeService.Query{
		Ingredients:   common.JoinIngredients(names),
		DietaryFilter: req.DietaryFilter,
		TimeFilter:    parseTimeFilter(req.TimeFilter),
	})

	common.LogInfo("圖片食譜搜尋完成",
		zap.String("request_id", requestID),
		zap.Int("ingredients_count", len(names)),
		zap.Int("results", result.Len()),
	)

	c.JSON(http.StatusOK, common.ImageSearchResponse{
		Ingredients: names,
		Recipes:     result.Payload(),
	})
}

// HandleGetRecipe 依 ID 取得單一食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		writeError(c, common.ErrInvalidRequest.Wrap(err), "Invalid recipe ID")
		return
	}

	r, ok := h.catalog.Get(id)
	if !ok {
		writeError(c, common.ErrNotFound, "Recipe not found")
		return
	}

	c.JSON(http.StatusOK, r)
}
