package posts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/devconnect-go/apperror"
	"github.com/user/devconnect-go/auth"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// UserSource resolves user records for author snapshots. The auth package's
// UserStore satisfies it.
type UserSource interface {
	GetUserByID(ctx context.Context, id int) (*auth.User, error)
}

// PostService implements the post aggregate's mutation rules: creation with
// author snapshots, owner-only deletion, the one-like-per-user invariant,
// and author-owned comments.
type PostService struct {
	store PostStore
	users UserSource
}

// NewPostService creates a new PostService.
func NewPostService(store PostStore, users UserSource) *PostService {
	return &PostService{store: store, users: users}
}

// Create makes a new post owned by userID, snapshotting the author's current
// name and avatar. Later profile edits do not change what old posts display.
func (s *PostService) Create(ctx context.Context, userID int, text string) (*Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.NewValidationError("text is required", nil)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	post := &Post{
		ID:       uuid.NewString(),
		UserID:   userID,
		Text:     text,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Likes:    []Like{},
		Comments: []Comment{},
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, apperror.NewDatabaseError("failed to create post", err)
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list posts", err)
	}
	return posts, nil
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, postID string) (*Post, error) {
	return s.getPost(ctx, postID)
}

func (s *PostService) getPost(ctx context.Context, postID string) (*Post, error) {
	// A malformed id can never match a post, so it reads as not-found.
	if _, err := uuid.Parse(postID); err != nil {
		return nil, apperror.NewNotFoundError("post not found", nil)
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("post not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get post", err)
	}
	return post, nil
}

// Delete removes a post. Only the post's owner may delete it.
func (s *PostService) Delete(ctx context.Context, postID string, userID int) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return apperror.NewUnauthorizedError("user not authorised", nil)
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return apperror.NewDatabaseError("failed to delete post", err)
	}
	return nil
}

// Like adds the caller to the post's likes set and returns the updated set.
// Liking a post twice is rejected rather than silently ignored, so a stale
// client learns its state is out of date.
func (s *PostService) Like(ctx context.Context, postID string, userID int) ([]Like, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	for _, like := range post.Likes {
		if like.UserID == userID {
			return nil, apperror.NewConflictError("post already liked", nil)
		}
	}

	if err := s.store.AddLike(ctx, postID, userID); err != nil {
		// A concurrent like between our read and write trips the primary
		// key; that race is still "already liked".
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("post already liked", nil)
		}
		return nil, apperror.NewDatabaseError("failed to like post", err)
	}

	likes, err := s.store.ListLikes(ctx, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list likes", err)
	}
	return likes, nil
}

// Unlike removes the caller from the post's likes set and returns the
// updated set. Unliking a post that was never liked is rejected.
func (s *PostService) Unlike(ctx context.Context, postID string, userID int) ([]Like, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	affected, err := s.store.RemoveLike(ctx, postID, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to unlike post", err)
	}
	if affected == 0 {
		return nil, apperror.NewConflictError("post has not yet been liked", nil)
	}

	likes, err := s.store.ListLikes(ctx, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list likes", err)
	}
	return likes, nil
}

// AddComment prepends a comment with a generated id and an author snapshot,
// returning the updated comments list.
func (s *PostService) AddComment(ctx context.Context, postID string, userID int, text string) ([]Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.NewValidationError("text is required", nil)
	}

	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	comment := &Comment{
		ID:     uuid.NewString(),
		UserID: userID,
		Text:   text,
		Name:   user.Name,
		Avatar: user.Avatar,
	}
	if err := s.store.AddComment(ctx, postID, comment); err != nil {
		return nil, apperror.NewDatabaseError("failed to add comment", err)
	}

	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment from a post. Only the comment's author may
// delete it; the post owner has no say over other users' comments.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID string, userID int) ([]Comment, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(commentID); err != nil {
		return nil, apperror.NewNotFoundError("comment does not exist", nil)
	}

	comment, err := s.store.GetComment(ctx, postID, commentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("comment does not exist", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get comment", err)
	}

	if comment.UserID != userID {
		return nil, apperror.NewUnauthorizedError("user not authorised", nil)
	}

	if err := s.store.DeleteComment(ctx, postID, commentID); err != nil {
		return nil, apperror.NewDatabaseError("failed to delete comment", err)
	}

	comments, err := s.store.ListComments(ctx, postID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list comments", err)
	}
	return comments, nil
}
