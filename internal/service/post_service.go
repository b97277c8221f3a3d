package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog_platform/internal/model"
	"blog_platform/internal/repository"
	"blog_platform/internal/utils"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("forbidden: user does not have permission for this action")
	ErrInvalidState = errors.New("invalid post status for this action")
	ErrSlugConflict = errors.New("could not allocate a unique slug")
)

// slugFallback is used when a title contains no ASCII alphanumerics at all
// and slugifies to the empty string.
const slugFallback = "post"

// maxSlugAttempts bounds the disambiguation loop; with a unique index
// underneath, running out means something is actively racing us.
const maxSlugAttempts = 50

// PostService defines the post lifecycle operations
type PostService interface {
	CreatePost(ctx context.Context, authorID int, req model.CreatePostRequest) (*model.Post, error)
	GetPostByID(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error)
	GetMyPosts(ctx context.Context, userID int, filters model.MyPostFilters) ([]model.Post, error)
	UpdatePost(ctx context.Context, postID int64, userID int, userRole string, req model.UpdatePostRequest) (*model.Post, error)
	DeletePost(ctx context.Context, postID int64, userID int, userRole string) error
	SubmitPost(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error)

	// Admin review methods
	GetPendingPosts(ctx context.Context) ([]model.Post, error)
	PublishPost(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error)
	RejectPost(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error)

	// Public read methods
	GetPublishedPosts(ctx context.Context, page model.PublicPostPage) ([]model.PublicPost, error)
	GetArticleBySlug(ctx context.Context, slug string) (*model.PublicPost, error)
}

type postService struct {
	repo repository.PostRepository
}

// NewPostService creates a new PostService
func NewPostService(repo repository.PostRepository) PostService {
	return &postService{repo: repo}
}

// allocateSlug turns a title into a unique slug. The base slug is probed
// for an exact match first and disambiguated with -2, -3, ... suffixes.
// The probe is advisory; the DB unique index is what actually guarantees
// uniqueness, so Create/Update retry on a duplicate-key error.
func (s *postService) allocateSlug(ctx context.Context, title string, excludeID *int64, attempt int) (string, error) {
	base := utils.Slugify(title)
	if base == "" {
		base = slugFallback
	}

	for n := attempt; n < maxSlugAttempts; n++ {
		candidate := base
		if n > 0 {
			candidate = fmt.Sprintf("%s-%d", base, n+1)
		}
		exists, err := s.repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to probe slug %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrSlugConflict
}

func (s *postService) CreatePost(ctx context.Context, authorID int, req model.CreatePostRequest) (*model.Post, error) {
	post := &model.Post{
		Title:     req.Title,
		Body:      req.Body,
		Status:    model.StatusDraft,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}

	// A concurrent creation with the same title can slip between the probe
	// and the insert; the unique index rejects it and we retry with the
	// next suffix.
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.allocateSlug(ctx, req.Title, nil, attempt)
		if err != nil {
			return nil, err
		}
		post.Slug = slug

		err = s.repo.Create(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create post in repo: %w", err)
		}
	}
	return nil, ErrSlugConflict
}

func (s *postService) GetPostByID(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if userRole != model.RoleAdmin && post.AuthorID != userID {
		return nil, ErrForbidden
	}
	return post, nil
}

func (s *postService) GetMyPosts(ctx context.Context, userID int, filters model.MyPostFilters) ([]model.Post, error) {
	posts, err := s.repo.FindByAuthor(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get user posts from repo: %w", err)
	}
	return posts, nil
}

func (s *postService) UpdatePost(ctx context.Context, postID int64, userID int, userRole string, req model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post for update: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if err := EvaluateAction(userRole, post.AuthorID == userID, model.ActionEdit, post.Status); err != nil {
		return nil, err
	}

	titleChanged := req.Title != nil && *req.Title != post.Title
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}

	if !titleChanged {
		if err := s.repo.Update(ctx, post); err != nil {
			return nil, fmt.Errorf("failed to update post in repo: %w", err)
		}
		return post, nil
	}

	// Title changed: the slug is regenerated, excluding this post from the
	// uniqueness probe so an unchanged-base title keeps its slug.
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.allocateSlug(ctx, post.Title, &post.ID, attempt)
		if err != nil {
			return nil, err
		}
		post.Slug = slug

		err = s.repo.Update(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("failed to update post in repo: %w", err)
		}
	}
	return nil, ErrSlugConflict
}

func (s *postService) DeletePost(ctx context.Context, postID int64, userID int, userRole string) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to find post for deletion: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}

	if err := EvaluateAction(userRole, post.AuthorID == userID, model.ActionDelete, post.Status); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post in repo: %w", err)
	}
	return nil
}

func (s *postService) SubmitPost(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post for submission: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if err := EvaluateAction(userRole, post.AuthorID == userID, model.ActionSubmit, post.Status); err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = model.StatusPendingReview
	post.SubmittedAt = &now

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to submit post in repo: %w", err)
	}
	return post, nil
}

// --- Admin Methods ---

func (s *postService) GetPendingPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending posts: %w", err)
	}
	return posts, nil
}

func (s *postService) PublishPost(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post for publishing: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if err := EvaluateAction(userRole, post.AuthorID == userID, model.ActionPublish, post.Status); err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = model.StatusPublished
	post.PublishedAt = &now

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to publish post in repo: %w", err)
	}
	return post, nil
}

func (s *postService) RejectPost(ctx context.Context, postID int64, userID int, userRole string) (*model.Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post for rejection: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if err := EvaluateAction(userRole, post.AuthorID == userID, model.ActionReject, post.Status); err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = model.StatusRejected
	post.RejectedAt = &now

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to reject post in repo: %w", err)
	}
	return post, nil
}

// --- Public Read Methods ---

func (s *postService) GetPublishedPosts(ctx context.Context, page model.PublicPostPage) ([]model.PublicPost, error) {
	posts, err := s.repo.FindPublished(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to get published posts: %w", err)
	}

	out := make([]model.PublicPost, 0, len(posts))
	for i := range posts {
		out = append(out, posts[i].Public())
	}
	return out, nil
}

func (s *postService) GetArticleBySlug(ctx context.Context, slug string) (*model.PublicPost, error) {
	post, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	pub := post.Public()
	return &pub, nil
}
