package apiclient

import (
	"context"

	"hackhub-web/internal/domain"
)

type ResourceFilter struct {
	Pagination
	Type       string `url:"type,omitempty"`
	CategoryID *int64 `url:"category_id,omitempty"`
}

func (c *Client) ListResources(ctx context.Context, f ResourceFilter) (domain.Page[domain.Resource], error) {
	return get[domain.Page[domain.Resource]](ctx, c, "/resources"+buildQuery(f))
}

func (c *Client) GetResource(ctx context.Context, id int64) (domain.Resource, error) {
	return get[domain.Resource](ctx, c, idPath("/resources", id))
}

func (c *Client) CreateResource(ctx context.Context, actorID int64, in domain.ResourceCreate) (domain.Resource, error) {
	return post[domain.Resource](ctx, c, "/resources", in, AsUser(actorID))
}

func (c *Client) DeleteResource(ctx context.Context, actorID, id int64) error {
	return del(ctx, c, idPath("/resources", id), AsUser(actorID))
}
