package apiclient

import (
	"context"

	"hackhub-web/internal/domain"
)

// PostFilter filtra el listado de posts. Campos vacíos no se envían.
type PostFilter struct {
	Pagination
	Type       string `url:"type,omitempty"`
	Status     string `url:"status,omitempty"`
	CategoryID *int64 `url:"category_id,omitempty"`
	CreatedBy  *int64 `url:"created_by,omitempty"`
}

func (c *Client) ListPosts(ctx context.Context, f PostFilter) (domain.Page[domain.Post], error) {
	return get[domain.Page[domain.Post]](ctx, c, "/posts"+buildQuery(f))
}

func (c *Client) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	return get[domain.Post](ctx, c, idPath("/posts", id))
}

func (c *Client) CreatePost(ctx context.Context, actorID int64, in domain.PostCreate) (domain.Post, error) {
	return post[domain.Post](ctx, c, "/posts", in, AsUser(actorID))
}

func (c *Client) UpdatePost(ctx context.Context, actorID, id int64, in domain.PostUpdate) (domain.Post, error) {
	return patch[domain.Post](ctx, c, idPath("/posts", id), in, AsUser(actorID))
}

func (c *Client) DeletePost(ctx context.Context, actorID, id int64) error {
	return del(ctx, c, idPath("/posts", id), AsUser(actorID))
}

func (c *Client) ListComments(ctx context.Context, postID int64, p Pagination) (domain.Page[domain.Comment], error) {
	return get[domain.Page[domain.Comment]](ctx, c, idPath("/posts", postID, "comments")+buildQuery(p))
}

type commentRequest struct {
	Content string `json:"content"`
}

func (c *Client) CreateComment(ctx context.Context, actorID, postID int64, content string) (domain.Comment, error) {
	return post[domain.Comment](ctx, c, idPath("/posts", postID, "comments"), commentRequest{Content: content}, AsUser(actorID))
}

func (c *Client) DeleteComment(ctx context.Context, actorID, postID, commentID int64) error {
	return del(ctx, c, idPath(idPath("/posts", postID, "comments"), commentID), AsUser(actorID))
}

func (c *Client) LikePost(ctx context.Context, actorID, postID int64) (domain.Like, error) {
	return post[domain.Like](ctx, c, idPath("/posts", postID, "likes"), nil, AsUser(actorID))
}

func (c *Client) UnlikePost(ctx context.Context, actorID, postID int64) error {
	return del(ctx, c, idPath("/posts", postID, "likes"), AsUser(actorID))
}

func (c *Client) ListLikes(ctx context.Context, postID int64, p Pagination) (domain.Page[domain.Like], error) {
	return get[domain.Page[domain.Like]](ctx, c, idPath("/posts", postID, "likes")+buildQuery(p))
}

type ratingRequest struct {
	Score int `json:"score"`
}

func (c *Client) RatePost(ctx context.Context, actorID, postID int64, score int) (domain.Rating, error) {
	return post[domain.Rating](ctx, c, idPath("/posts", postID, "ratings"), ratingRequest{Score: score}, AsUser(actorID))
}
