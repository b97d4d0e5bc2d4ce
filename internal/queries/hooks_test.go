package queries

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchen-nadal/kitchen/internal/api"
	"github.com/kitchen-nadal/kitchen/internal/query"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	ids     []int
	tags    []string
	failTag bool
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(map[string]int)}
}

func (f *fakeFetcher) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeFetcher) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeFetcher) FetchRecipes(context.Context) api.Envelope[api.RecipeCollection] {
	f.record("recipes")
	return api.Envelope[api.RecipeCollection]{Data: api.RecipeCollection{
		Limit:   2,
		Recipes: []api.Recipe{{ID: 1, Name: "Margherita"}, {ID: 2, Name: "Ramen"}},
	}}
}

func (f *fakeFetcher) FetchRecipeByID(_ context.Context, id int) api.Envelope[api.Recipe] {
	f.record("details")
	f.mu.Lock()
	f.ids = append(f.ids, id)
	f.mu.Unlock()
	return api.Envelope[api.Recipe]{Data: api.Recipe{ID: id, Name: "Recipe"}}
}

func (f *fakeFetcher) FetchRecipeByTag(_ context.Context, tag string) api.Envelope[api.RecipeCollection] {
	f.record("recipesByTag")
	f.mu.Lock()
	f.tags = append(f.tags, tag)
	fail := f.failTag
	f.mu.Unlock()
	if fail {
		return api.Envelope[api.RecipeCollection]{
			Data:  api.RecipeCollection{Recipes: []api.Recipe{}},
			Error: "API Error: 404 Not Found",
		}
	}
	return api.Envelope[api.RecipeCollection]{Data: api.RecipeCollection{
		Recipes: []api.Recipe{{ID: 3, Name: "Pad Thai"}},
	}}
}

func (f *fakeFetcher) FetchTags(context.Context) api.Envelope[[]api.Tag] {
	f.record("tags")
	return api.Envelope[[]api.Tag]{Data: []api.Tag{"Pizza", "Italian"}}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		key  query.Key
		want string
	}{
		{"recipes", RecipesKey(), `["recipes"]`},
		{"details", RecipeByIDKey(7), `["details",7]`},
		{"tag", RecipesByTagKey("Pizza"), `["recipesByTag","Pizza"]`},
		{"tags", TagsKey(), `["tags"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
	assert.NotEqual(t, RecipeByIDKey(3).String(), RecipesByTagKey("3").String())
}

func TestHooks_RecipesByTagTrimsTag(t *testing.T) {
	f := newFakeFetcher()
	cache := query.New(query.Options{})
	h := New(cache, f)

	h.RecipesByTag(" breakfast").Fetch(context.Background())
	res := h.RecipesByTag("breakfast").Fetch(context.Background())
	require.NotNil(t, res.Data)

	assert.Equal(t, 1, f.count("recipesByTag"))
	assert.Equal(t, []string{"breakfast"}, f.tags)
	assert.Equal(t, []string{`["recipesByTag","breakfast"]`}, cache.Keys())
	assert.Equal(t, RecipesByTagKey("breakfast"), h.RecipesByTag("  breakfast ").Key())
}

func TestHooks_Recipes(t *testing.T) {
	f := newFakeFetcher()
	h := New(query.New(query.Options{}), f)

	res := h.Recipes().Fetch(context.Background())
	require.NotNil(t, res.Data)
	assert.False(t, res.Data.Failed())
	assert.Len(t, res.Data.Data.Recipes, 2)
	assert.Equal(t, "Margherita", res.Data.Data.Recipes[0].Name)

	h.Recipes().Fetch(context.Background())
	assert.Equal(t, 1, f.count("recipes"), "fresh data is served from cache")
}

func TestHooks_Tags(t *testing.T) {
	f := newFakeFetcher()
	h := New(query.New(query.Options{}), f)

	res := h.Tags().Fetch(context.Background())
	require.NotNil(t, res.Data)
	assert.Equal(t, []api.Tag{"Pizza", "Italian"}, res.Data.Data)
	assert.Equal(t, TagsKey(), h.Tags().Key())
}

func TestHooks_RecipeByIDConditional(t *testing.T) {
	f := newFakeFetcher()
	h := New(query.New(query.Options{}), f)

	for _, id := range []int{0, -4} {
		q := h.RecipeByID(id)
		assert.False(t, q.Enabled())
		res := q.Fetch(context.Background())
		assert.True(t, res.IsPending)
		assert.Nil(t, res.Data)
	}
	assert.Equal(t, 0, f.count("details"))

	res := h.RecipeByID(5).Fetch(context.Background())
	require.NotNil(t, res.Data)
	assert.Equal(t, 5, res.Data.Data.ID)
	assert.Equal(t, 1, f.count("details"))
	assert.Equal(t, []int{5}, f.ids)

	h.RecipeByID(6).Fetch(context.Background())
	assert.Equal(t, 2, f.count("details"), "distinct ids use distinct entries")
}

func TestHooks_RecipesByTagConditional(t *testing.T) {
	f := newFakeFetcher()
	h := New(query.New(query.Options{}), f)

	for _, tag := range []string{"", "   "} {
		q := h.RecipesByTag(tag)
		assert.False(t, q.Enabled())
		assert.True(t, q.Fetch(context.Background()).IsPending)
	}
	assert.Equal(t, 0, f.count("recipesByTag"))

	res := h.RecipesByTag("Thai").Fetch(context.Background())
	require.NotNil(t, res.Data)
	assert.Equal(t, "Pad Thai", res.Data.Data.Recipes[0].Name)
	assert.Equal(t, []string{"Thai"}, f.tags)
}

func TestHooks_EnvelopeErrorIsDataAndLogged(t *testing.T) {
	f := newFakeFetcher()
	f.failTag = true
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cache := query.New(query.Options{})
	h := New(cache, f, WithLogger(logger))

	res := h.RecipesByTag("Nope").Fetch(context.Background())
	require.NotNil(t, res.Data)
	assert.NoError(t, res.Err)
	assert.True(t, res.Data.Failed())
	assert.Equal(t, "API Error: 404 Not Found", res.Data.Error)
	assert.Empty(t, res.Data.Data.Recipes)

	assert.Contains(t, buf.String(), "api request failed")
	assert.Contains(t, buf.String(), `key="[\"recipesByTag\",\"Nope\"]"`)
	assert.Equal(t, 1, cache.Peek(RecipesByTagKey("Nope")).ConsecutiveFailures)
}

func TestHooks_NilFetcherDisablesEverything(t *testing.T) {
	h := New(query.New(query.Options{}), nil)
	assert.False(t, h.Recipes().Enabled())
	assert.False(t, h.Tags().Enabled())
	assert.False(t, h.RecipeByID(1).Enabled())
	assert.False(t, h.RecipesByTag("x").Enabled())
}
