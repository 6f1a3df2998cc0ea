package handlers

import (
	"SocialSphere/internal/middleware"
	"SocialSphere/internal/service"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

const (
	msgEditPost      = "You can only edit your own posts"
	msgDeletePost    = "You can only delete your own posts"
	msgEditComment   = "You can only edit your own comments"
	msgDeleteComment = "You can only delete your own comments"
)

// PostHandler — лента, посты, лайки и комментарии.
type PostHandler struct {
	PostService *service.PostService
	Logger      *zap.SugaredLogger
	media       *mediaStore
}

func NewPostHandler(postService *service.PostService, media *mediaStore, logger *zap.SugaredLogger) *PostHandler {
	return &PostHandler{PostService: postService, Logger: logger, media: media}
}

// postInput — поля создания/редактирования; nil означает "не передано".
type postInput struct {
	Content *string
	Image   *string
}

// readPostInput разбирает multipart (content + файл image) или JSON {"content": ...}.
func (h *PostHandler) readPostInput(w http.ResponseWriter, r *http.Request) (postInput, bool) {
	var in postInput
	if !isMultipart(r) {
		var req struct {
			Content *string `json:"content"`
		}
		if !decodeJSON(w, r, &req) {
			return in, false
		}
		in.Content = req.Content
		return in, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseMultipartForm(maxBodySize); err != nil {
		writeDetail(w, http.StatusBadRequest, "Multipart form parse error")
		return in, false
	}
	if v, ok := r.MultipartForm.Value["content"]; ok && len(v) > 0 {
		in.Content = &v[0]
	}
	image, err := h.media.saveFormFile(r, "image", "posts")
	if errors.Is(err, errBadImage) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"image": {badImageMsg}})
		return in, false
	}
	if err != nil {
		h.Logger.Errorw("save post image", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return in, false
	}
	if image != "" {
		in.Image = &image
	}
	return in, true
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	viewer, _ := middleware.GetUserIDFromContext(r.Context())
	res, err := h.PostService.List(r.Context(), viewer, page)
	if errors.Is(err, service.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "Invalid page.")
		return
	}
	if err != nil {
		writeServiceError(w, h.Logger, "List", err, "")
		return
	}
	results := make([]PostDTO, 0, len(res.Items))
	for i := range res.Items {
		results = append(results, toPostDTO(r, &res.Items[i]))
	}
	writeJSON(w, http.StatusOK, newPage(r, page, res.Total, results))
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	viewer, _ := middleware.GetUserIDFromContext(r.Context())
	post, err := h.PostService.Get(r.Context(), viewer, id)
	if err != nil {
		writeServiceError(w, h.Logger, "Get", err, "")
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(r, post))
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	in, ok := h.readPostInput(w, r)
	if !ok {
		return
	}
	var content, image string
	if in.Content != nil {
		content = *in.Content
	}
	if in.Image != nil {
		image = *in.Image
	}
	post, err := h.PostService.Create(r.Context(), userID, content, image)
	if err != nil {
		writeServiceError(w, h.Logger, "Create", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toPostDTO(r, post))
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	in, ok := h.readPostInput(w, r)
	if !ok {
		return
	}
	post, err := h.PostService.Update(r.Context(), userID, id, in.Content, in.Image)
	if err != nil {
		writeServiceError(w, h.Logger, "Update", err, msgEditPost)
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(r, post))
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.PostService.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.Logger, "Delete", err, msgDeletePost)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like переключает лайк: 201 — поставлен, 200 — снят.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	liked, err := h.PostService.ToggleLike(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, h.Logger, "Like", err, "")
		return
	}
	if liked {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Post liked"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post unliked"})
}

func (h *PostHandler) Comments(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}
	res, err := h.PostService.Comments(r.Context(), id, page)
	if err != nil {
		writeServiceError(w, h.Logger, "Comments", err, "")
		return
	}
	results := make([]CommentDTO, 0, len(res.Items))
	for i := range res.Items {
		results = append(results, toCommentDTO(r, &res.Items[i]))
	}
	writeJSON(w, http.StatusOK, newPage(r, page, res.Total, results))
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.PostService.AddComment(r.Context(), userID, id, req.Content)
	if err != nil {
		writeServiceError(w, h.Logger, "AddComment", err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toCommentDTO(r, c))
}

// UpdateComment — PATCH /posts/comments/{id}/, только автор комментария.
func (h *PostHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	var req struct {
		Content string `json:"content"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.PostService.UpdateComment(r.Context(), userID, id, req.Content)
	if err != nil {
		writeServiceError(w, h.Logger, "UpdateComment", err, msgEditComment)
		return
	}
	writeJSON(w, http.StatusOK, toCommentDTO(r, c))
}

func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.PostService.DeleteComment(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.Logger, "DeleteComment", err, msgDeleteComment)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
