package apiclient

import (
	"context"

	"hackhub-web/internal/domain"
)

type GroupFilter struct {
	Pagination
	CategoryID *int64 `url:"category_id,omitempty"`
	CreatedBy  *int64 `url:"created_by,omitempty"`
}

func (c *Client) ListGroups(ctx context.Context, f GroupFilter) (domain.Page[domain.Group], error) {
	return get[domain.Page[domain.Group]](ctx, c, "/groups"+buildQuery(f))
}

func (c *Client) GetGroup(ctx context.Context, id int64) (domain.Group, error) {
	return get[domain.Group](ctx, c, idPath("/groups", id))
}

func (c *Client) CreateGroup(ctx context.Context, actorID int64, in domain.GroupCreate) (domain.Group, error) {
	return post[domain.Group](ctx, c, "/groups", in, AsUser(actorID))
}

func (c *Client) UpdateGroup(ctx context.Context, actorID, id int64, in domain.GroupUpdate) (domain.Group, error) {
	return patch[domain.Group](ctx, c, idPath("/groups", id), in, AsUser(actorID))
}

func (c *Client) DeleteGroup(ctx context.Context, actorID, id int64) error {
	return del(ctx, c, idPath("/groups", id), AsUser(actorID))
}

func (c *Client) ListGroupMembers(ctx context.Context, groupID int64) ([]domain.GroupMember, error) {
	return get[[]domain.GroupMember](ctx, c, idPath("/groups", groupID, "members"))
}

func (c *Client) JoinGroup(ctx context.Context, actorID, groupID int64) (domain.GroupMember, error) {
	return post[domain.GroupMember](ctx, c, idPath("/groups", groupID, "members"), nil, AsUser(actorID))
}

func (c *Client) LeaveGroup(ctx context.Context, actorID, groupID int64) error {
	return del(ctx, c, idPath(idPath("/groups", groupID, "members"), actorID), AsUser(actorID))
}
