package queries

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/kitchen-nadal/kitchen/internal/api"
	"github.com/kitchen-nadal/kitchen/internal/query"
)

// Cache key prefixes. Keys are compared by their JSON form, so
// RecipeByID(3) and RecipesByTag("3") never collide.
const (
	keyRecipes      = "recipes"
	keyDetails      = "details"
	keyRecipesByTag = "recipesByTag"
	keyTags         = "tags"
)

// Hooks hands out the queries the screens bind to.
type Hooks struct {
	cache   *query.Cache
	fetcher api.Fetcher
	logger  *slog.Logger
}

// Option customises Hooks.
type Option func(*Hooks)

// WithLogger reports envelope errors to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hooks) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New binds the hooks to a cache and an API fetcher.
func New(cache *query.Cache, fetcher api.Fetcher, opts ...Option) *Hooks {
	h := &Hooks{
		cache:   cache,
		fetcher: fetcher,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Cache returns the underlying query cache.
func (h *Hooks) Cache() *query.Cache {
	return h.cache
}

// Recipes is the default recipe page.
func (h *Hooks) Recipes() query.Query[api.Envelope[api.RecipeCollection]] {
	key := RecipesKey()
	return query.NewQuery(h.cache, key, func(ctx context.Context) (api.Envelope[api.RecipeCollection], error) {
		return logged(h, key, h.fetcher.FetchRecipes(ctx)), nil
	}, h.fetcher != nil)
}

// RecipeByID is a single recipe. It stays disabled until id is known (> 0).
func (h *Hooks) RecipeByID(id int) query.Query[api.Envelope[api.Recipe]] {
	key := RecipeByIDKey(id)
	return query.NewQuery(h.cache, key, func(ctx context.Context) (api.Envelope[api.Recipe], error) {
		return logged(h, key, h.fetcher.FetchRecipeByID(ctx, id)), nil
	}, h.fetcher != nil && id > 0)
}

// RecipesByTag is the recipes carrying tag. It stays disabled while tag is
// blank. Surrounding space is ignored, so " breakfast" shares an entry with
// "breakfast".
func (h *Hooks) RecipesByTag(tag string) query.Query[api.Envelope[api.RecipeCollection]] {
	tag = strings.TrimSpace(tag)
	key := RecipesByTagKey(tag)
	return query.NewQuery(h.cache, key, func(ctx context.Context) (api.Envelope[api.RecipeCollection], error) {
		return logged(h, key, h.fetcher.FetchRecipeByTag(ctx, tag)), nil
	}, h.fetcher != nil && tag != "")
}

// Tags is the list of every tag.
func (h *Hooks) Tags() query.Query[api.Envelope[[]api.Tag]] {
	key := TagsKey()
	return query.NewQuery(h.cache, key, func(ctx context.Context) (api.Envelope[[]api.Tag], error) {
		return logged(h, key, h.fetcher.FetchTags(ctx)), nil
	}, h.fetcher != nil)
}

// RecipesKey is the cache key of Recipes.
func RecipesKey() query.Key { return query.Key{keyRecipes} }

// RecipeByIDKey is the cache key of RecipeByID.
func RecipeByIDKey(id int) query.Key { return query.Key{keyDetails, id} }

// RecipesByTagKey is the cache key of RecipesByTag.
func RecipesByTagKey(tag string) query.Key {
	return query.Key{keyRecipesByTag, strings.TrimSpace(tag)}
}

// TagsKey is the cache key of Tags.
func TagsKey() query.Key { return query.Key{keyTags} }

func logged[T any](h *Hooks, key query.Key, env api.Envelope[T]) api.Envelope[T] {
	if env.Failed() {
		h.logger.Warn("api request failed", "key", key.String(), "error", env.Error)
	}
	return env
}
