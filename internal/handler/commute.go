package handler

import (
	"errors"
	"net/http"

	"github.com/commutelog/api/internal/model"
	"github.com/commutelog/api/internal/repository"
	"github.com/commutelog/api/internal/service"
	"github.com/commutelog/api/internal/validation"
)

const commuteNotFound = "Commute not found (or not owned by user)"

type CommuteHandler struct {
	commuteService *service.CommuteService
	uploader       imageUploader
}

func NewCommuteHandler(
	commuteService *service.CommuteService,
	fileService *service.FileService,
	constraints validation.FileConstraints,
) *CommuteHandler {
	return &CommuteHandler{
		commuteService: commuteService,
		uploader:       imageUploader{files: fileService, constraints: constraints},
	}
}

// commuteRequest carries every writable commute attribute. Values are
// free-form: numbers may arrive as strings and text as numbers. Absent
// fields decode as unset and are stored as NULL.
type commuteRequest struct {
	UserID      flexInt    `json:"user_id"`
	FromLabel   flexString `json:"from_label"`
	ToLabel     flexString `json:"to_label"`
	Mode        flexString `json:"mode"`
	StartTime   flexString `json:"start_time"`
	EndTime     flexString `json:"end_time"`
	DurationMin flexInt    `json:"duration_min"`
	Purpose     flexString `json:"purpose"`
	Notes       flexString `json:"notes"`
	StartLat    flexFloat  `json:"start_lat"`
	StartLng    flexFloat  `json:"start_lng"`
	EndLat      flexFloat  `json:"end_lat"`
	EndLng      flexFloat  `json:"end_lng"`
	DistanceKm  flexFloat  `json:"distance_km"`
}

func (req *commuteRequest) commute(id, userID int64) *model.Commute {
	return &model.Commute{
		ID:          id,
		UserID:      userID,
		FromLabel:   req.FromLabel.ptr(),
		ToLabel:     req.ToLabel.ptr(),
		Mode:        req.Mode.ptr(),
		StartTime:   req.StartTime.ptr(),
		EndTime:     req.EndTime.ptr(),
		DurationMin: req.DurationMin.ptr(),
		Purpose:     req.Purpose.ptr(),
		Notes:       req.Notes.ptr(),
		StartLat:    req.StartLat.ptr(),
		StartLng:    req.StartLng.ptr(),
		EndLat:      req.EndLat.ptr(),
		EndLng:      req.EndLng.ptr(),
		DistanceKm:  req.DistanceKm.ptr(),
	}
}

type createCommuteResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type imageResponse struct {
	Message  string  `json:"message,omitempty"`
	ImageURL *string `json:"imageUrl"`
	FilePath *string `json:"file_path"`
	FileName *string `json:"file_name"`
}

func (h *CommuteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := ownerID(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	commutes, err := h.commuteService.Commutes(r.Context(), userID)
	if err != nil {
		serverError(w, r, "Failed to fetch commutes", err)
		return
	}

	writeJSON(w, http.StatusOK, commutes)
}

// Get responds with a one-element array, or an empty one when the commute
// does not exist for this user.
func (h *CommuteHandler) Get(w http.ResponseWriter, r *http.Request) {
	commuteID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid commute id")
		return
	}
	userID, ok := ownerID(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	commute, err := h.commuteService.ByID(r.Context(), userID, commuteID)
	switch {
	case errors.Is(err, repository.ErrCommuteNotFound):
		writeJSON(w, http.StatusOK, []*model.Commute{})
	case err != nil:
		serverError(w, r, "Failed to fetch commute", err)
	default:
		writeJSON(w, http.StatusOK, []*model.Commute{commute})
	}
}

func (h *CommuteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req commuteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.UserID.set || req.UserID.value <= 0 {
		writeMessage(w, http.StatusBadRequest, "Missing user_id")
		return
	}

	commute := req.commute(0, req.UserID.value)
	err := h.commuteService.Create(r.Context(), commute)
	if err != nil {
		serverError(w, r, "Failed to create commute", err)
		return
	}

	writeJSON(w, http.StatusCreated, createCommuteResponse{
		Message: "Commute created successfully",
		ID:      commute.ID,
	})
}

// Update overwrites all attributes except id, user_id and image.
func (h *CommuteHandler) Update(w http.ResponseWriter, r *http.Request) {
	commuteID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid commute id")
		return
	}
	userID, ok := ownerID(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	var req commuteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.commuteService.Update(r.Context(), req.commute(commuteID, userID))
	if errors.Is(err, repository.ErrCommuteNotFound) {
		writeMessage(w, http.StatusNotFound, commuteNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to update commute", err)
		return
	}

	writeMessage(w, http.StatusOK, "Commute updated successfully")
}

func (h *CommuteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commuteID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid commute id")
		return
	}
	userID, ok := ownerID(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	err := h.commuteService.Delete(r.Context(), userID, commuteID)
	if errors.Is(err, repository.ErrCommuteNotFound) {
		writeMessage(w, http.StatusNotFound, commuteNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to delete commute", err)
		return
	}

	writeMessage(w, http.StatusOK, "Commute deleted successfully")
}

// UploadImage stores the "image" part and attaches it to the commute named
// by the path, scoped to the form's user_id.
func (h *CommuteHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	commuteID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid commute id")
		return
	}
	defer cleanup(r)

	err := h.uploader.parse(w, r)
	if err != nil {
		uploadError(w, r, "Failed to upload image", err)
		return
	}

	userID, ok := ownerID(w, r.FormValue("user_id"))
	if !ok {
		return
	}

	filename, header, err := h.uploader.store(r.Context(), r)
	if errors.Is(err, errNoFile) {
		writeMessage(w, http.StatusBadRequest, "Missing image file")
		return
	}
	if err != nil {
		uploadError(w, r, "Failed to upload image", err)
		return
	}

	err = h.commuteService.AttachImage(r.Context(), userID, commuteID, filename)
	if errors.Is(err, repository.ErrCommuteNotFound) {
		writeMessage(w, http.StatusNotFound, commuteNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to upload image", err)
		return
	}

	url := h.uploader.files.URL(filename)
	var originalName *string
	if header.Filename != "" {
		originalName = &header.Filename
	}

	writeJSON(w, http.StatusCreated, imageResponse{
		Message:  "Image uploaded",
		ImageURL: &url,
		FilePath: &filename,
		FileName: originalName,
	})
}

// Image reports the commute's stored image. The original upload name is
// not kept, so file_name is always null.
func (h *CommuteHandler) Image(w http.ResponseWriter, r *http.Request) {
	commuteID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid commute id")
		return
	}
	userID, ok := ownerID(w, r.URL.Query().Get("user_id"))
	if !ok {
		return
	}

	image, err := h.commuteService.Image(r.Context(), userID, commuteID)
	if errors.Is(err, repository.ErrCommuteNotFound) {
		writeMessage(w, http.StatusNotFound, commuteNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to fetch image", err)
		return
	}

	writeJSON(w, http.StatusOK, imageResponse{
		ImageURL: h.uploader.files.URLPtr(image),
		FilePath: image,
	})
}
