package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/stockline/catalog-service/apperr"
	"github.com/stockline/catalog-service/app/respond"
	"github.com/stockline/catalog-service/models"
)

type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func toResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

type CategoryProvider interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, in CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	Search(ctx context.Context, text string) ([]models.Category, error)
}

type CategoryHandler struct {
	svc CategoryProvider
}

func NewCategoryHandler(svc CategoryProvider) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog/categories", h.HandleList)
	mux.HandleFunc("POST /api/catalog/categories", h.HandleCreate)
	mux.HandleFunc("GET /api/catalog/categories/search", h.HandleSearch)
	mux.HandleFunc("PUT /api/catalog/categories/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /api/catalog/categories/{id}", h.HandleDelete)
	mux.HandleFunc("GET /api/catalog/categories/{id}/exists", h.HandleExists)
}

func (h *CategoryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}
	respond.JSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	category, err := h.svc.Create(r.Context(), input)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toResponse(*category))
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var input CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	category, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*category))
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) HandleExists(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	exists, err := h.svc.Exists(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *CategoryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = toResponse(c)
	}
	respond.JSON(w, http.StatusOK, response)
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid category id")
	}
	return uint(id), nil
}
