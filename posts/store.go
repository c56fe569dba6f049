package posts

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostStore persists post aggregates and their nested likes and comments.
// Implementations return driver errors unwrapped (pgx.ErrNoRows and unique
// violations included); the service layer owns error classification.
type PostStore interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context) ([]Post, error)
	DeletePost(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID string, userID int) error
	RemoveLike(ctx context.Context, postID string, userID int) (int64, error)
	ListLikes(ctx context.Context, postID string) ([]Like, error)
	AddComment(ctx context.Context, postID string, comment *Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string) ([]Comment, error)
}

type pgPostStore struct {
	db *pgxpool.Pool
}

// NewPostStore creates a PostgreSQL-backed PostStore.
func NewPostStore(db *pgxpool.Pool) PostStore {
	return &pgPostStore{db: db}
}

func (s *pgPostStore) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (id, user_id, text, name, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	return s.db.QueryRow(ctx, query, post.ID, post.UserID, post.Text, post.Name, post.Avatar).
		Scan(&post.CreatedAt)
}

func (s *pgPostStore) GetPost(ctx context.Context, id string) (*Post, error) {
	var p Post
	query := `SELECT id, user_id, text, name, avatar, created_at FROM posts WHERE id = $1`
	err := s.db.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if p.Likes, err = s.ListLikes(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Comments, err = s.ListComments(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgPostStore) ListPosts(ctx context.Context) ([]Post, error) {
	query := `SELECT id, user_id, text, name, avatar, created_at FROM posts ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.Avatar, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].Likes, err = s.ListLikes(ctx, posts[i].ID); err != nil {
			return nil, err
		}
		if posts[i].Comments, err = s.ListComments(ctx, posts[i].ID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func (s *pgPostStore) DeletePost(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func (s *pgPostStore) AddLike(ctx context.Context, postID string, userID int) error {
	_, err := s.db.Exec(ctx, `INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)`, postID, userID)
	return err
}

func (s *pgPostStore) RemoveLike(ctx context.Context, postID string, userID int) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *pgPostStore) ListLikes(ctx context.Context, postID string) ([]Like, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY seq DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []Like{}
	for rows.Next() {
		var l Like
		if err := rows.Scan(&l.UserID); err != nil {
			return nil, err
		}
		likes = append(likes, l)
	}
	return likes, rows.Err()
}

func (s *pgPostStore) AddComment(ctx context.Context, postID string, comment *Comment) error {
	query := `
		INSERT INTO post_comments (id, post_id, user_id, text, name, avatar)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	return s.db.QueryRow(ctx, query,
		comment.ID, postID, comment.UserID, comment.Text, comment.Name, comment.Avatar).
		Scan(&comment.CreatedAt)
}

func (s *pgPostStore) GetComment(ctx context.Context, postID, commentID string) (*Comment, error) {
	var c Comment
	query := `SELECT id, user_id, text, name, avatar, created_at
	          FROM post_comments WHERE id = $1 AND post_id = $2`
	err := s.db.QueryRow(ctx, query, commentID, postID).
		Scan(&c.ID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *pgPostStore) DeleteComment(ctx context.Context, postID, commentID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM post_comments WHERE id = $1 AND post_id = $2`, commentID, postID)
	return err
}

func (s *pgPostStore) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, text, name, avatar, created_at
		FROM post_comments WHERE post_id = $1 ORDER BY seq DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Text, &c.Name, &c.Avatar, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
