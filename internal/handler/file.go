package handler

import (
	"net/http"

	"github.com/dakflow/dakflow/internal/ctxkeys"
	"github.com/dakflow/dakflow/internal/service"
)

type fileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *fileHandler {
	return &fileHandler{fileService: fileService}
}

func (h *fileHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	files, err := h.fileService.List(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

func (h *fileHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.FileInput
	err := decodeJSON(r, &in)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.fileService.Create(user.ID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, file)
}

func (h *fileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	file, err := h.fileService.Get(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

func (h *fileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var in service.FileInput
	err := decodeJSON(r, &in)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.fileService.Update(user.ID, r.PathValue("id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

func (h *fileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.fileService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *fileHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Status string  `json:"status"`
		Reason *string `json:"reason"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.fileService.UpdateStatus(user.ID, r.PathValue("id"), req.Status, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *fileHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entries, err := h.fileService.History(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *fileHandler) AllHistory(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entries, err := h.fileService.HistoryForUser(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *fileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Attachments cap at 10MB, leave headroom for multipart framing
	err := r.ParseMultipartForm(12 << 20)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	storagePath, err := h.fileService.Upload(file, header)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"storage_path": storagePath})
}
