package apiclient

import (
	"context"

	"hackhub-web/internal/domain"
)

// CategoryFilter filtra eventos.
type CategoryFilter struct {
	Pagination
	Type      string `url:"type,omitempty"`
	Status    string `url:"status,omitempty"`
	CreatedBy *int64 `url:"created_by,omitempty"`
}

func (c *Client) ListCategories(ctx context.Context, f CategoryFilter) (domain.Page[domain.Category], error) {
	return get[domain.Page[domain.Category]](ctx, c, "/categories"+buildQuery(f))
}

func (c *Client) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	return get[domain.Category](ctx, c, idPath("/categories", id))
}

func (c *Client) CreateCategory(ctx context.Context, actorID int64, in domain.CategoryCreate) (domain.Category, error) {
	return post[domain.Category](ctx, c, "/categories", in, AsUser(actorID))
}

func (c *Client) UpdateCategory(ctx context.Context, actorID, id int64, in domain.CategoryUpdate) (domain.Category, error) {
	return patch[domain.Category](ctx, c, idPath("/categories", id), in, AsUser(actorID))
}

func (c *Client) DeleteCategory(ctx context.Context, actorID, id int64) error {
	return del(ctx, c, idPath("/categories", id), AsUser(actorID))
}

// ListCategoryPosts lista las propuestas de un evento.
func (c *Client) ListCategoryPosts(ctx context.Context, categoryID int64, f PostFilter) (domain.Page[domain.Post], error) {
	return get[domain.Page[domain.Post]](ctx, c, idPath("/categories", categoryID, "posts")+buildQuery(f))
}

func (c *Client) FollowCategory(ctx context.Context, actorID, categoryID int64) (domain.Follow, error) {
	return post[domain.Follow](ctx, c, idPath("/categories", categoryID, "follow"), nil, AsUser(actorID))
}

func (c *Client) UnfollowCategory(ctx context.Context, actorID, categoryID int64) error {
	return del(ctx, c, idPath("/categories", categoryID, "follow"), AsUser(actorID))
}
