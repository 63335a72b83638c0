package domain

import "time"

type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

type GroupCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"category_id,omitempty"`
}

type GroupUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type GroupMember struct {
	GroupID  int64     `json:"group_id"`
	UserID   int64     `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at,omitempty"`
}

type Resource struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	CategoryID *int64 `json:"category_id,omitempty"`
	CreatedBy  int64  `json:"created_by"`
}

type ResourceCreate struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	CategoryID *int64 `json:"category_id,omitempty"`
}
