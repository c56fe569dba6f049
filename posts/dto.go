// Data Transfer Objects for the posts module.
package posts

// CreatePostRequest carries the payload for a new post.
type CreatePostRequest struct {
	Text string `json:"text" validate:"required" example:"hello"`
}

// AddCommentRequest carries the payload for a new comment.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required" example:"nice post"`
}
