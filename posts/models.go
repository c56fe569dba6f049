// Package posts manages the post aggregate: content items owned by a user,
// each carrying a likes set and an ordered comments list. Author name and
// avatar are snapshotted into posts and comments at creation time and never
// re-joined, so later profile edits do not rewrite history.
package posts

import "time"

// Post is a content item owned by exactly one user. The owner is recorded at
// creation and immutable.
type Post struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Like is one endorsement. A user appears in a post's likes at most once.
type Like struct {
	UserID int `json:"user_id"`
}

// Comment is one entry of a post's comments list. Ownership is the comment
// author's, independent of the post owner.
type Comment struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}
