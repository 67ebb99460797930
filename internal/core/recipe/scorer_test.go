package recipe

import (
	"math"
	"reflect"
	"testing"

	"recipe-finder/internal/pkg/common"
)

func recipeWith(id int, names ...string) common.Recipe {
	ings := make([]common.IngredientRef, 0, len(names))
	for _, n := range names {
		ings = append(ings, common.IngredientRef{Name: n, Quantity: "1"})
	}
	return common.Recipe{ID: id, Name: "recipe", Ingredients: ings}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		recipe      common.Recipe
		user        []string
		penalty     float64
		wantScore   float64
		wantOwned   int
		wantMissing []string
	}{
		{
			name:        "half owned",
			recipe:      recipeWith(1, "tomato", "onion"),
			user:        []string{"tomato"},
			penalty:     DefaultMissingPenalty,
			wantScore:   40,
			wantOwned:   1,
			wantMissing: []string{"onion"},
		},
		{
			name:        "one third owned",
			recipe:      recipeWith(2, "tomato", "onion", "garlic"),
			user:        []string{"tomato"},
			penalty:     DefaultMissingPenalty,
			wantScore:   13.33,
			wantOwned:   1,
			wantMissing: []string{"onion", "garlic"},
		},
		{
			name:        "all owned",
			recipe:      recipeWith(3, "egg", "butter"),
			user:        []string{"butter", "egg", "salt"},
			penalty:     DefaultMissingPenalty,
			wantScore:   100,
			wantOwned:   2,
			wantMissing: []string{},
		},
		{
			name:        "score can go negative",
			recipe:      recipeWith(4, "a", "b", "c", "d", "e", "f", "g", "h", "i", "j"),
			user:        []string{"a"},
			penalty:     DefaultMissingPenalty,
			wantScore:   -80,
			wantOwned:   1,
			wantMissing: []string{"b", "c", "d", "e", "f", "g", "h", "i", "j"},
		},
		{
			name:        "no ingredients",
			recipe:      recipeWith(5),
			user:        []string{"tomato"},
			penalty:     DefaultMissingPenalty,
			wantScore:   0,
			wantOwned:   0,
			wantMissing: []string{},
		},
		{
			name:        "custom penalty",
			recipe:      recipeWith(6, "rice", "beans"),
			user:        []string{"rice"},
			penalty:     25,
			wantScore:   25,
			wantOwned:   1,
			wantMissing: []string{"beans"},
		},
		{
			name:        "catalog casing is folded",
			recipe:      recipeWith(7, "Olive Oil", "Basil"),
			user:        []string{"olive oil"},
			penalty:     DefaultMissingPenalty,
			wantScore:   40,
			wantOwned:   1,
			wantMissing: []string{"basil"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewScorer(tt.penalty).Score(tt.recipe, NewIngredientSet(tt.user))
			if !almostEqual(got.Score, tt.wantScore) {
				t.Errorf("score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.OwnedCount != tt.wantOwned {
				t.Errorf("owned = %d, want %d", got.OwnedCount, tt.wantOwned)
			}
			if got.OwnedCount+got.MissingCount != len(tt.recipe.Ingredients) {
				t.Errorf("owned+missing = %d, want %d", got.OwnedCount+got.MissingCount, len(tt.recipe.Ingredients))
			}
			if got.MissingCount != len(got.MissingNames) {
				t.Errorf("missing count %d does not match names %q", got.MissingCount, got.MissingNames)
			}
			if !reflect.DeepEqual(got.MissingNames, tt.wantMissing) {
				t.Errorf("missing = %q, want %q", got.MissingNames, tt.wantMissing)
			}
			if got.ID != tt.recipe.ID {
				t.Errorf("scored recipe lost its id")
			}
		})
	}
}

func TestScoreUsesDefaultPenalty(t *testing.T) {
	r := recipeWith(1, "tomato", "onion")
	set := NewIngredientSet([]string{"tomato"})
	if got, want := Score(r, set), NewScorer(DefaultMissingPenalty).Score(r, set); got.Score != want.Score {
		t.Fatalf("Score() = %v, want %v", got.Score, want.Score)
	}
}

func TestScoreMatchesPaddedCatalogName(t *testing.T) {
	r := recipeWith(1, " Tomato ", "onion")
	got := NewScorer(DefaultMissingPenalty).Score(r, NewIngredientSet([]string{"tomato"}))
	if got.OwnedCount != 1 {
		t.Fatalf("OwnedCount = %d, want 1", got.OwnedCount)
	}
	if len(got.MissingNames) != 1 || got.MissingNames[0] != "onion" {
		t.Fatalf("MissingNames = %q", got.MissingNames)
	}
}
