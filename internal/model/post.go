package model

import "time"

const (
	StatusDraft         = "draft"
	StatusPendingReview = "pending_review"
	StatusPublished     = "published"
	StatusRejected      = "rejected"
)

// PostAction names a requested lifecycle operation on a post.
type PostAction string

const (
	ActionEdit    PostAction = "edit"
	ActionDelete  PostAction = "delete"
	ActionSubmit  PostAction = "submit"
	ActionPublish PostAction = "publish"
	ActionReject  PostAction = "reject"
)

// ValidStatus reports whether s is one of the known post statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Post is the lifecycle-bearing entity. The slug is unique across all posts
// regardless of status, and PublishedAt is set iff the post is published.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	AuthorID    int        `json:"author_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
}

// CreatePostRequest is used for creating a new draft post
type CreatePostRequest struct {
	Title string `json:"title" binding:"required,max=300"`
	Body  string `json:"body" binding:"required"`
}

type UpdatePostRequest struct {
	Title *string `json:"title,omitempty" binding:"omitempty,max=300"` // Pointers to allow partial updates
	Body  *string `json:"body,omitempty"`
}

// MyPostFilters contains filter parameters for an author's own post listing
type MyPostFilters struct {
	Status *string
}

// PublicPostPage contains pagination parameters for the public article feed
type PublicPostPage struct {
	Limit  int
	Offset int
}

// PublicPost is the projection served to anonymous readers. It drops status,
// author and internal timestamps.
type PublicPost struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
}

// Public returns the anonymous-reader projection of p. It must only be
// called for published posts, where PublishedAt is always set.
func (p *Post) Public() PublicPost {
	out := PublicPost{
		ID:    p.ID,
		Title: p.Title,
		Slug:  p.Slug,
		Body:  p.Body,
	}
	if p.PublishedAt != nil {
		out.PublishedAt = *p.PublishedAt
	}
	return out
}
