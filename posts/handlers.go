package posts

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/devconnect-go/apperror"
	"github.com/user/devconnect-go/auth"
)

// Handlers provides HTTP handlers for posts, likes and comments. All routes
// here require authentication.
type Handlers struct {
	service  *PostService
	validate *validator.Validate
}

// NewHandlers creates new post Handlers.
func NewHandlers(service *PostService) *Handlers {
	return &Handlers{service: service, validate: validator.New()}
}

// HandleCreate godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postBody body posts.CreatePostRequest true "Post text"
// @Success 201 {object} posts.Post
// @Failure 400 {object} apperror.ErrorResponse "Text is required"
// @Router /posts [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("text is required", err))
			return
		}

		post, err := h.service.Create(r.Context(), userID, req.Text)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, post)
	}
}

// HandleList godoc
// @Summary List all posts, newest first
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} posts.Post
// @Router /posts [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, list)
	}
}

// HandleGet godoc
// @Summary Get a post by id
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 200 {object} posts.Post
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /posts/{postID} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.service.Get(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, post)
	}
}

// HandleDelete godoc
// @Summary Delete a post (owner only)
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} apperror.ErrorResponse "Not the post owner"
// @Failure 404 {object} apperror.ErrorResponse "Post not found"
// @Router /posts/{postID} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		if err := h.service.Delete(r.Context(), chi.URLParam(r, "postID"), userID); err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, map[string]string{"msg": "Post removed successfully"})
	}
}

// HandleLike godoc
// @Summary Like a post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 201 {array} posts.Like
// @Failure 400 {object} apperror.ErrorResponse "Post already liked"
// @Router /posts/like/{postID} [put]
func (h *Handlers) HandleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		likes, err := h.service.Like(r.Context(), chi.URLParam(r, "postID"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, likes)
	}
}

// HandleUnlike godoc
// @Summary Unlike a post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Success 200 {array} posts.Like
// @Failure 400 {object} apperror.ErrorResponse "Post has not yet been liked"
// @Router /posts/unlike/{postID} [put]
func (h *Handlers) HandleUnlike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		likes, err := h.service.Unlike(r.Context(), chi.URLParam(r, "postID"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, likes)
	}
}

// HandleAddComment godoc
// @Summary Comment on a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Param commentBody body posts.AddCommentRequest true "Comment text"
// @Success 200 {array} posts.Comment
// @Failure 404 {object} apperror.ErrorResponse "Post does not exist"
// @Router /posts/comment/{postID} [post]
func (h *Handlers) HandleAddComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		var req AddCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body: "+err.Error(), nil))
			return
		}
		defer r.Body.Close()

		if err := h.validate.Struct(req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("text is required", err))
			return
		}

		comments, err := h.service.AddComment(r.Context(), chi.URLParam(r, "postID"), userID, req.Text)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, comments)
	}
}

// HandleDeleteComment godoc
// @Summary Delete a comment (comment author only)
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID"
// @Param commentID path string true "Comment ID"
// @Success 200 {array} posts.Comment
// @Failure 403 {object} apperror.ErrorResponse "Not the comment author"
// @Failure 404 {object} apperror.ErrorResponse "Comment does not exist"
// @Router /posts/comment/{postID}/{commentID} [delete]
func (h *Handlers) HandleDeleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("missing credentials", nil))
			return
		}

		comments, err := h.service.DeleteComment(r.Context(),
			chi.URLParam(r, "postID"), chi.URLParam(r, "commentID"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, comments)
	}
}
