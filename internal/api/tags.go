package api

import "context"

// FetchTags retrieves every known recipe tag.
func (c *Client) FetchTags(ctx context.Context) Envelope[[]Tag] {
	var payload []Tag
	if err := c.Get(ctx, "/tags", &payload); err != nil {
		return failure([]Tag{}, err)
	}
	return success(payload)
}
