package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/MiguelProz/kairos/internal/ctxkeys"
	"github.com/MiguelProz/kairos/internal/service"
	"github.com/MiguelProz/kairos/internal/storage"
	"github.com/MiguelProz/kairos/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	storage     storage.Storage
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, storage storage.Storage) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		storage:     storage,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	err := decodeJSON(r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, err = h.authService.Register(in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if in.Email == "" || in.Password == "" {
		writeError(w, r, fmt.Errorf("%w: email and password are required", service.ErrInvalidInput))
		return
	}

	token, err := h.authService.Login(in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateMe handles PUT /api/auth/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateAccountInput
	err := decodeJSON(r, &in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.userService.UpdateAccount(ctxkeys.UserID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UploadAvatar handles POST /api/auth/me/avatar
func (h *AuthHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "avatar uploads are not configured"})
		return
	}

	err := r.ParseMultipartForm(validation.ImageConstraints.MaxSize)
	if err != nil {
		writeError(w, r, service.ErrInvalidInput)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, r, service.ErrInvalidInput)
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	userID := ctxkeys.UserID(r.Context())
	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := "avatars/" + userID + ext

	contentType := header.Header.Get("Content-Type")
	err = h.storage.Save(key, contentType, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.userService.SetAvatarURL(userID, h.storage.URL(key))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteAvatar handles DELETE /api/auth/me/avatar
func (h *AuthHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	user, err := h.userService.ByID(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.storage != nil && user.AvatarURL != "" {
		// Object keys are always avatars/<id><ext>; recover the key from
		// the stored URL
		if idx := strings.Index(user.AvatarURL, "/avatars/"); idx != -1 {
			err = h.storage.Delete(user.AvatarURL[idx+1:])
			if err != nil {
				writeError(w, r, err)
				return
			}
		}
	}

	user, err = h.userService.SetAvatarURL(userID, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
