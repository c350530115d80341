package handler

import (
	"net/http"

	"github.com/dakflow/dakflow/internal/service"
)

type departmentHandler struct {
	departmentService *service.DepartmentService
}

func NewDepartmentHandler(departmentService *service.DepartmentService) *departmentHandler {
	return &departmentHandler{departmentService: departmentService}
}

func (h *departmentHandler) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentService.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, departments)
}

func (h *departmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		IsCustom bool   `json:"is_custom"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	department, err := h.departmentService.Create(req.Name, req.IsCustom)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, department)
}
