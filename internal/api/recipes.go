package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FetchRecipes retrieves the default recipe page.
func (c *Client) FetchRecipes(ctx context.Context) Envelope[RecipeCollection] {
	var payload RecipeCollection
	if err := c.Get(ctx, "", &payload); err != nil {
		return failure(emptyCollection(), err)
	}
	return success(payload)
}

// FetchRecipeByID retrieves a single recipe. id must be positive.
func (c *Client) FetchRecipeByID(ctx context.Context, id int) Envelope[Recipe] {
	if id <= 0 {
		return failure(EmptyRecipe(), &Error{Kind: KindRequest, Err: fmt.Errorf("recipe id must be positive, got %d", id)})
	}
	var payload Recipe
	if err := c.Get(ctx, "/"+strconv.Itoa(id), &payload); err != nil {
		return failure(EmptyRecipe(), err)
	}
	return success(payload)
}

// FetchRecipeByTag retrieves the recipes carrying tag. tag must not be blank.
func (c *Client) FetchRecipeByTag(ctx context.Context, tag string) Envelope[RecipeCollection] {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return failure(emptyCollection(), &Error{Kind: KindRequest, Err: fmt.Errorf("tag is required")})
	}
	var payload RecipeCollection
	if err := c.Get(ctx, "/tag/"+url.PathEscape(trimmed), &payload); err != nil {
		return failure(emptyCollection(), err)
	}
	return success(payload)
}
