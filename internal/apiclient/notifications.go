package apiclient

import (
	"context"
	"encoding/json"

	"hackhub-web/internal/domain"
)

type notificationFilter struct {
	Pagination
	UnreadOnly bool `url:"unread_only,omitempty"`
}

func (c *Client) ListNotifications(ctx context.Context, actorID int64, p Pagination, unreadOnly bool) (domain.Page[domain.Notification], error) {
	q := buildQuery(notificationFilter{Pagination: p, UnreadOnly: unreadOnly})
	return get[domain.Page[domain.Notification]](ctx, c, "/notifications"+q, AsUser(actorID))
}

func (c *Client) MarkNotificationRead(ctx context.Context, actorID, id int64) (domain.Notification, error) {
	return patch[domain.Notification](ctx, c, idPath("/notifications", id, "read"), nil, AsUser(actorID))
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context, actorID int64) error {
	_, err := post[json.RawMessage](ctx, c, "/notifications/read-all", nil, AsUser(actorID))
	return err
}
