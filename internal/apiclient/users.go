package apiclient

import (
	"context"
	"net/url"

	"hackhub-web/internal/domain"
)

type userFilter struct {
	Pagination
	Role domain.Role `url:"role,omitempty"`
}

// ListUsers lista usuarios; role vacío no filtra.
func (c *Client) ListUsers(ctx context.Context, skip, limit int, role domain.Role) (domain.Page[domain.User], error) {
	q := buildQuery(userFilter{Pagination: Paginate(skip, limit), Role: role})
	return get[domain.Page[domain.User]](ctx, c, "/users"+q)
}

func (c *Client) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return get[domain.User](ctx, c, idPath("/users", id))
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return get[domain.User](ctx, c, "/users/by-username/"+url.PathEscape(username))
}

// Register crea una cuenta. Nunca envía el header de identidad.
func (c *Client) Register(ctx context.Context, in domain.UserCreate) (domain.User, error) {
	return post[domain.User](ctx, c, "/users", in, withoutIdentity())
}

func (c *Client) UpdateUser(ctx context.Context, actorID, id int64, in domain.UserUpdate) (domain.User, error) {
	return patch[domain.User](ctx, c, idPath("/users", id), in, AsUser(actorID))
}

func (c *Client) DeleteUser(ctx context.Context, actorID, id int64) error {
	return del(ctx, c, idPath("/users", id), AsUser(actorID))
}

func (c *Client) FollowUser(ctx context.Context, actorID, targetID int64) (domain.Follow, error) {
	return post[domain.Follow](ctx, c, idPath("/users", targetID, "follow"), nil, AsUser(actorID))
}

func (c *Client) UnfollowUser(ctx context.Context, actorID, targetID int64) error {
	return del(ctx, c, idPath("/users", targetID, "follow"), AsUser(actorID))
}

func (c *Client) ListFollowers(ctx context.Context, userID int64, p Pagination) (domain.Page[domain.User], error) {
	return get[domain.Page[domain.User]](ctx, c, idPath("/users", userID, "followers")+buildQuery(p))
}

func (c *Client) ListFollowing(ctx context.Context, userID int64, p Pagination) (domain.Page[domain.User], error) {
	return get[domain.Page[domain.User]](ctx, c, idPath("/users", userID, "following")+buildQuery(p))
}
