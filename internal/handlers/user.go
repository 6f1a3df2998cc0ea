package handlers

import (
	"SocialSphere/internal/middleware"
	"SocialSphere/internal/service"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler — регистрация, вход, обновление токенов и профиль.
type UserHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
	Logger       *zap.SugaredLogger
	media        *mediaStore
}

func NewUserHandler(userService *service.UserService, tokenService *service.TokenService, media *mediaStore, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, TokenService: tokenService, Logger: logger, media: media}
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Register создаёт пользователя и сразу выдаёт пару токенов.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.UserService.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if errors.Is(err, service.ErrUsernameTaken) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
		return
	}
	if err != nil {
		writeServiceError(w, h.Logger, "Register", err, "")
		return
	}
	pair, err := h.TokenService.Issue(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("Register: issue tokens", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, AuthResponse{User: toUserDTO(r, user, true), Access: pair.Access, Refresh: pair.Refresh})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	user, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeServiceError(w, h.Logger, "Login", err, "")
		return
	}
	pair, err := h.TokenService.Issue(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("Login: issue tokens", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{User: toUserDTO(r, user, true), Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh обменивает refresh-токен на новую пару (старый отзывается).
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"refresh": {"This field is required."}})
		return
	}
	pair, err := h.TokenService.Refresh(r.Context(), req.Refresh)
	if errors.Is(err, service.ErrInvalidRefreshToken) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	if err != nil {
		h.Logger.Errorw("Refresh: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Logout отзывает все refresh-токены пользователя.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	if err := h.TokenService.RevokeAll(r.Context(), userID); err != nil {
		h.Logger.Errorw("Logout: revoke tokens", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	h.writeProfile(w, r, userID, true)
}

// UpdateProfile принимает JSON или multipart (с файлом avatar).
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var in service.ProfileUpdate
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		if err := r.ParseMultipartForm(maxBodySize); err != nil {
			writeDetail(w, http.StatusBadRequest, "Multipart form parse error")
			return
		}
		if v, ok := r.MultipartForm.Value["email"]; ok && len(v) > 0 {
			in.Email = &v[0]
		}
		if v, ok := r.MultipartForm.Value["bio"]; ok && len(v) > 0 {
			in.Bio = &v[0]
		}
		avatar, err := h.media.saveFormFile(r, "avatar", "avatars")
		if errors.Is(err, errBadImage) {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"avatar": {badImageMsg}})
			return
		}
		if err != nil {
			h.Logger.Errorw("UpdateProfile: save avatar", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if avatar != "" {
			in.Avatar = &avatar
		}
	} else {
		var req struct {
			Email *string `json:"email"`
			Bio   *string `json:"bio"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		in.Email, in.Bio = req.Email, req.Bio
	}

	if _, err := h.UserService.UpdateProfile(r.Context(), userID, in); err != nil {
		writeServiceError(w, h.Logger, "UpdateProfile", err, "")
		return
	}
	h.writeProfile(w, r, userID, true)
}

// ByUsername — публичный профиль.
func (h *UserHandler) ByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeServiceError(w, h.Logger, "ByUsername", err, "")
		return
	}
	viewer, _ := middleware.GetUserIDFromContext(r.Context())
	h.writeProfile(w, r, user.ID, viewer == user.ID)
}

func (h *UserHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID int64, own bool) {
	user, posts, err := h.UserService.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, "Profile", err, "")
		return
	}
	dto := toUserDTO(r, user, own)
	dto.PostsCount = &posts
	writeJSON(w, http.StatusOK, dto)
}
