// Package api provides an HTTP client for the public recipes API.
//
// # Overview
//
// This package defines the client used to read recipes and tags from
// https://dummyjson.com/recipes. It handles HTTP communication, JSON decoding,
// classification of failures and the envelope returned to the query layer.
//
// # Architecture
//
//   - client.go: HTTP client, base endpoint handling and the generic Get
//   - errors.go: transport error type and the Describe normalizer
//   - types.go: Recipe, RecipeCollection, StringList and Envelope
//   - recipes.go, tags.go: the four resource fetchers
//
// # Client Usage
//
//	client, err := api.NewClient("https://dummyjson.com/recipes")
//	if err != nil {
//		return fmt.Errorf("init api client: %w", err)
//	}
//
//	env := client.FetchRecipeByID(ctx, 1)
//	if env.Failed() {
//		fmt.Println(env.Error) // e.g. "API Error: 404 Not Found"
//	}
//
// # API Endpoints
//
//   - GET {base}: default recipe page ({limit, recipes})
//   - GET {base}/{id}: one recipe
//   - GET {base}/tag/{tag}: recipes for a tag ({limit, recipes})
//   - GET {base}/tags: list of tag strings
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Content-Type and Accept to application/json
//   - Include User-Agent: kitchen/0.1
//   - Share a fixed 10-second timeout (RequestTimeout)
//   - Are never retried
//
// # Envelopes
//
// Fetchers never return an error. Every outcome is an Envelope: on success
// Data holds the decoded body and Error is empty; on failure Error holds the
// message produced by Describe and Data holds a placeholder (an empty
// collection, an empty tag slice or EmptyRecipe). Use Envelope.Failed to
// detect failure; an empty Data is a valid success.
//
// # Error Messages
//
// Describe maps every error to exactly one of:
//
//   - "API Error: {status} {statusText}" for non-2xx responses
//   - "Network Error: No response received from server" for timeouts and
//     connection failures
//   - "Error: {message}" for request construction and decoding failures
//   - "An unexpected error occurred" for anything that is not an *Error
//
// # Thread Safety
//
// A Client is immutable after NewClient returns and is safe for concurrent
// use. Construct one at startup and pass it to whatever needs it.
package api
