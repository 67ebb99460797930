package recipe

import (
	"reflect"
	"testing"

	"recipe-finder/internal/pkg/common"
)

func testCatalog() []common.Recipe {
	return []common.Recipe{
		{
			ID:          1,
			Name:        "Salad",
			Ingredients: []common.IngredientRef{{Name: "tomato"}, {Name: "lettuce"}},
			CookingTime: 10,
			Dietary:     []string{"vegetarian", "vegan"},
		},
		{
			ID:          2,
			Name:        "Chicken Soup",
			Ingredients: []common.IngredientRef{{Name: "chicken"}, {Name: "onion"}, {Name: "carrot"}},
			CookingTime: 45,
			Dietary:     []string{"gluten-free"},
		},
		{
			ID:          3,
			Name:        "Tomato Soup",
			Ingredients: []common.IngredientRef{{Name: "tomato"}, {Name: "onion"}, {Name: "cream"}},
			CookingTime: 30,
			Dietary:     []string{"vegetarian"},
		},
		{
			ID:          4,
			Name:        "Omelette",
			Ingredients: []common.IngredientRef{{Name: "egg"}, {Name: "cheese"}},
			CookingTime: 5,
			Dietary:     []string{"vegetarian", "gluten-free"},
		},
	}
}

func ids(matches []common.ScoredRecipe) []int {
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out
}

func TestRankOrdersByScore(t *testing.T) {
	catalog := []common.Recipe{
		recipeWith(2, "tomato", "onion", "garlic"),
		recipeWith(1, "tomato", "onion"),
	}
	rk := NewRanker(NewScorer(DefaultMissingPenalty))

	got := rk.Rank(catalog, "tomato", DietaryAll, AnyTime)
	if got.Browse {
		t.Fatal("non-empty input must not browse")
	}
	if want := []int{1, 2}; !reflect.DeepEqual(ids(got.Matches), want) {
		t.Fatalf("order = %v, want %v", ids(got.Matches), want)
	}
	if !almostEqual(got.Matches[0].Score, 40) || !almostEqual(got.Matches[1].Score, 13.33) {
		t.Fatalf("unexpected scores %v, %v", got.Matches[0].Score, got.Matches[1].Score)
	}
}

func TestRankEmptyInputReturnsCatalog(t *testing.T) {
	catalog := testCatalog()
	rk := NewRanker(NewScorer(DefaultMissingPenalty))

	for _, raw := range []string{"", "   ", ", ,"} {
		got := rk.Rank(catalog, raw, "vegan", 1)
		if !got.Browse {
			t.Fatalf("input %q: expected browse result", raw)
		}
		if !reflect.DeepEqual(got.Recipes, catalog) {
			t.Fatalf("input %q: expected full catalog in catalog order", raw)
		}
		if got.Len() != len(catalog) {
			t.Fatalf("input %q: Len() = %d", raw, got.Len())
		}
		if _, ok := got.Payload().([]common.Recipe); !ok {
			t.Fatalf("input %q: payload should be the plain catalog", raw)
		}
	}
}

func TestRankFilters(t *testing.T) {
	rk := NewRanker(NewScorer(DefaultMissingPenalty))

	tests := []struct {
		name    string
		input   string
		dietary string
		time    int
		want    []int
	}{
		{"zero owned excluded", "tomato", DietaryAll, AnyTime, []int{1, 3}},
		{"unknown ingredient only", "durian", DietaryAll, AnyTime, []int{}},
		{"dietary excludes untagged", "tomato, onion, chicken", "vegetarian", AnyTime, []int{3, 1}},
		{"dietary tag must match exactly", "tomato", "Vegetarian", AnyTime, []int{}},
		{"time limit is inclusive", "tomato, onion", DietaryAll, 30, []int{3, 1}},
		{"time limit excludes slower", "onion", DietaryAll, 30, []int{3}},
		{"zero time excludes nothing", "onion", DietaryAll, AnyTime, []int{2, 3}},
		{"filters combine", "egg, tomato, chicken", "gluten-free", 10, []int{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rk.Rank(testCatalog(), tt.input, tt.dietary, tt.time)
			if got.Browse {
				t.Fatal("unexpected browse result")
			}
			if !reflect.DeepEqual(ids(got.Matches), tt.want) {
				t.Fatalf("ids = %v, want %v", ids(got.Matches), tt.want)
			}
			for _, m := range got.Matches {
				if m.OwnedCount == 0 {
					t.Fatalf("recipe %d admitted with no owned ingredients", m.ID)
				}
			}
		})
	}
}

func TestRankTiesKeepCatalogOrder(t *testing.T) {
	catalog := []common.Recipe{
		recipeWith(10, "rice", "beans"),
		recipeWith(11, "rice", "corn"),
		recipeWith(12, "rice", "peas"),
	}
	rk := NewRanker(NewScorer(DefaultMissingPenalty))

	got := rk.Rank(catalog, "rice", DietaryAll, AnyTime)
	if want := []int{10, 11, 12}; !reflect.DeepEqual(ids(got.Matches), want) {
		t.Fatalf("ids = %v, want %v", ids(got.Matches), want)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	rk := NewRanker(NewScorer(DefaultMissingPenalty))
	catalog := testCatalog()

	first := rk.Rank(catalog, "Tomato, onion , EGG", DietaryAll, AnyTime)
	for i := 0; i < 5; i++ {
		again := rk.Rank(catalog, "Tomato, onion , EGG", DietaryAll, AnyTime)
		if !reflect.DeepEqual(first, again) {
			t.Fatal("rank output changed between identical calls")
		}
	}
}

func TestFinderServiceDefaultsDietaryFilter(t *testing.T) {
	svc := NewFinderService(testCatalog(), DefaultMissingPenalty)
	if svc.CatalogSize() != 4 {
		t.Fatalf("CatalogSize() = %d", svc.CatalogSize())
	}

	got := svc.Find(Query{Ingredients: "onion"})
	if want := []int{2, 3}; !reflect.DeepEqual(ids(got.Matches), want) {
		t.Fatalf("ids = %v, want %v", ids(got.Matches), want)
	}

	browse := svc.Find(Query{DietaryFilter: "vegan", TimeFilter: 5})
	if !browse.Browse || browse.Len() != 4 {
		t.Fatalf("expected full catalog browse, got %+v", browse)
	}
}
