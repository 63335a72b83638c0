package domain

import "time"

const (
	PostTypeForCategory = "for_category"
	PostTypeProposal    = "proposal"

	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

type Post struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	CreatedBy     int64     `json:"created_by"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

type PostCreate struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	Status     string `json:"status,omitempty"`
	CategoryID *int64 `json:"category_id,omitempty"`
}

type PostUpdate struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	Status     *string `json:"status,omitempty"`
	CategoryID *int64  `json:"category_id,omitempty"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Like struct {
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Rating struct {
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
	Score  int   `json:"score"`
}
