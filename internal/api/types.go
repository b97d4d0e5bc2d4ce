package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Tag is a recipe tag as returned by /tags.
type Tag = string

// Recipe mirrors a recipe object returned by the API. Pointer and slice
// fields are optional and stay nil when the payload omits them.
type Recipe struct {
	ID                 int        `json:"id"`
	Name               string     `json:"name"`
	Image              string     `json:"image"`
	CookTimeMinutes    int        `json:"cookTimeMinutes"`
	PrepTimeMinutes    *int       `json:"prepTimeMinutes,omitempty"`
	Servings           *int       `json:"servings,omitempty"`
	Difficulty         string     `json:"difficulty,omitempty"`
	Cuisine            string     `json:"cuisine,omitempty"`
	CaloriesPerServing *int       `json:"caloriesPerServing,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
	Rating             *float64   `json:"rating,omitempty"`
	ReviewCount        *int       `json:"reviewCount,omitempty"`
	MealType           StringList `json:"mealType,omitempty"`
	Ingredients        []string   `json:"ingredients,omitempty"`
	Instructions       []string   `json:"instructions,omitempty"`
}

// EmptyRecipe is the placeholder returned when a recipe lookup fails:
// zero ID, empty strings, every optional field absent.
func EmptyRecipe() Recipe {
	return Recipe{}
}

// IsEmpty reports whether r is the EmptyRecipe placeholder.
func (r Recipe) IsEmpty() bool {
	return r.ID == 0 && r.Name == "" && r.Image == ""
}

// TotalMinutes returns prep plus cook time.
func (r Recipe) TotalMinutes() int {
	total := r.CookTimeMinutes
	if r.PrepTimeMinutes != nil {
		total += *r.PrepTimeMinutes
	}
	return total
}

// RecipeCollection mirrors the list payload of / and /tag/{tag}.
type RecipeCollection struct {
	Limit   int      `json:"limit"`
	Recipes []Recipe `json:"recipes"`
}

func emptyCollection() RecipeCollection {
	return RecipeCollection{Limit: 0, Recipes: []Recipe{}}
}

// StringList decodes either a JSON array of strings or a single bare string.
// The API is not consistent about mealType, so both shapes are accepted; it
// always encodes as an array.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		if strings.TrimSpace(single) == "" {
			*l = StringList{}
			return nil
		}
		*l = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = StringList(many)
	return nil
}

// String joins the values for display.
func (l StringList) String() string {
	return strings.Join(l, ", ")
}

// Envelope wraps a fetch result. Error is non-empty if and only if the fetch
// failed, in which case Data holds the operation's placeholder value.
type Envelope[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the envelope carries an error. Callers must use it
// rather than inspecting Data, which is never absent.
func (e Envelope[T]) Failed() bool {
	return e.Error != ""
}

func success[T any](data T) Envelope[T] {
	return Envelope[T]{Data: data}
}

func failure[T any](placeholder T, err error) Envelope[T] {
	return Envelope[T]{Data: placeholder, Error: Describe(err)}
}
