package handler

import (
	"net/http"

	"github.com/dakflow/dakflow/internal/ctxkeys"
	"github.com/dakflow/dakflow/internal/service"
)

type emailHandler struct {
	emailService *service.EmailService
}

func NewEmailHandler(emailService *service.EmailService) *emailHandler {
	return &emailHandler{emailService: emailService}
}

// Send dispatches one notification email. Delivery failures come
// back as HTTP 500 with a structured body; the thread row persists
// either way as the audit trail of the attempt.
func (h *emailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req service.SendRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.emailService.Send(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !result.Success {
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *emailHandler) Threads(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	threads, err := h.emailService.Threads(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, threads)
}
