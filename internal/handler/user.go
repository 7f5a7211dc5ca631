package handler

import (
	"errors"
	"net/http"

	"github.com/commutelog/api/internal/model"
	"github.com/commutelog/api/internal/repository"
	"github.com/commutelog/api/internal/service"
	"github.com/commutelog/api/internal/validation"
)

type UserHandler struct {
	userService *service.UserService
	uploader    imageUploader
}

func NewUserHandler(
	userService *service.UserService,
	fileService *service.FileService,
	constraints validation.FileConstraints,
) *UserHandler {
	return &UserHandler{
		userService: userService,
		uploader:    imageUploader{files: fileService, constraints: constraints},
	}
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

type updateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
	Phone    string `json:"phone" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type avatarResponse struct {
	Message   string  `json:"message"`
	AvatarURL *string `json:"avatarUrl"`
	ImageURL  *string `json:"imageUrl"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Users(r.Context())
	if err != nil {
		serverError(w, r, "Failed to fetch users", err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Get responds with a one-element array, or an empty one when the user
// does not exist.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.userService.ByID(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		writeJSON(w, http.StatusOK, []*model.User{})
	case err != nil:
		serverError(w, r, "Failed to fetch user", err)
	default:
		writeJSON(w, http.StatusOK, []*model.User{user})
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user := &model.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}

	err := h.userService.Create(r.Context(), user, req.Password)
	if errors.Is(err, service.ErrInvalidPassword) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		serverError(w, r, "Failed to create user", err)
		return
	}

	writeMessage(w, http.StatusCreated, "User created successfully")
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req updateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user := &model.User{
		ID:       id,
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}

	err := h.userService.Update(r.Context(), user, req.Password)
	if errors.Is(err, service.ErrInvalidPassword) {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		serverError(w, r, "Failed to update user", err)
		return
	}

	writeMessage(w, http.StatusOK, "User updated successfully")
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	err := h.userService.Delete(r.Context(), id)
	if err != nil {
		serverError(w, r, "Failed to delete user", err)
		return
	}

	writeMessage(w, http.StatusOK, "User deleted successfully")
}

// Login answers with the matching users. Wrong credentials are an empty
// array with 200, never 401.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	users, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		serverError(w, r, "Login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// UploadAvatar replaces the user's avatar with the "image" part. A request
// without a file clears it.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	defer cleanup(r)

	err := h.uploader.parse(w, r)
	if err != nil {
		uploadError(w, r, "Avatar upload failed", err)
		return
	}

	var filename *string
	stored, _, err := h.uploader.store(r.Context(), r)
	switch {
	case errors.Is(err, errNoFile):
	case err != nil:
		uploadError(w, r, "Avatar upload failed", err)
		return
	default:
		filename = &stored
	}

	err = h.userService.SetAvatar(r.Context(), id, filename)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		serverError(w, r, "Avatar upload failed", err)
		return
	}

	url := h.uploader.files.URLPtr(filename)
	writeJSON(w, http.StatusCreated, avatarResponse{
		Message:   "Avatar uploaded",
		AvatarURL: url,
		ImageURL:  url,
	})
}
