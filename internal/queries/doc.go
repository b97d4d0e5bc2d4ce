// Package queries exposes the recipe API as cached queries.
//
// Each hook returns a query.Query keyed so that repeated requests for the
// same resource share one cache entry:
//
//	Recipes()          ["recipes"]
//	RecipeByID(id)     ["details", id]         enabled when id > 0
//	RecipesByTag(tag)  ["recipesByTag", tag]   enabled when tag is not blank
//	Tags()             ["tags"]
//
// The fetch functions never return an error. API failures arrive as an
// api.Envelope whose Error field is set, which the hooks also log at Warn.
package queries
