package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/VitaminP8/petforum/internal/auth"
	"github.com/VitaminP8/petforum/internal/model"
	"github.com/VitaminP8/petforum/internal/storage"
)

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// liked - текущее состояние лайка у пользователя, запрос его переключает
type toggleLikeRequest struct {
	Liked bool `json:"liked"`
}

type toggleLikeResponse struct {
	PostID    string `json:"postId"`
	LikeCount int    `json:"likeCount"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.Users.Register(r.Context(), req.Username, req.Password, req.PasswordConfirm)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password required")
		return
	}

	token, u, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if storage.IsNotFound(err) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := queryInt(w, r, "pageSize", h.PageSize)
	if !ok {
		return
	}

	result, err := h.Posts.ListPosts(r.Context(), page, pageSize)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.Posts.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	who, _ := auth.IdentityFromContext(r.Context())
	p, err := h.Posts.CreatePost(r.Context(), who, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Comments.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	who, _ := auth.IdentityFromContext(r.Context())
	c, err := h.Comments.CreateComment(r.Context(), who, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request) {
	var req toggleLikeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	postID := chi.URLParam(r, "id")
	n, err := h.Likes.ToggleLike(r.Context(), postID, req.Liked)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toggleLikeResponse{PostID: postID, LikeCount: n})
}

func queryInt(w http.ResponseWriter, r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, key+" must be an integer")
		return 0, false
	}
	return n, true
}
