package products

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/stockline/catalog-service/apperr"
	"github.com/stockline/catalog-service/app/respond"
	"github.com/stockline/catalog-service/models"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID           uint             `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	SalePrice    float64          `json:"salePrice"`
	PurchaseCost *float64         `json:"purchaseCost"`
	CurrentStock int              `json:"currentStock"`
	Status       string           `json:"status"`
	Category     CategoryResponse `json:"category"`
}

func toResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SalePrice:    p.SalePrice.InexactFloat64(),
		CurrentStock: p.CurrentStock,
		Status:       string(p.Status),
		Category: CategoryResponse{
			ID:   p.Category.ID,
			Name: p.Category.Name,
		},
	}
	if p.PurchaseCost.Valid {
		cost := p.PurchaseCost.Decimal.InexactFloat64()
		resp.PurchaseCost = &cost
	}
	return resp
}

func toResponseList(products []models.Product) []ProductResponse {
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toResponse(p)
	}
	return response
}

type ProductProvider interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	ChangeStatus(ctx context.Context, id uint, status models.ProductStatus) (*models.Product, error)
	IncreaseStock(ctx context.Context, id uint, quantity int, purchaseCost *decimal.Decimal) (*models.Product, error)
	DecreaseStock(ctx context.Context, id uint, quantity int) (*models.Product, error)
	ListByStatus(ctx context.Context, status models.ProductStatus) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]models.Product, error)
	SearchByName(ctx context.Context, name string) ([]models.Product, error)
	ListAvailable(ctx context.Context) ([]models.Product, error)
	ListByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]models.Product, error)
}

type ProductHandler struct {
	svc ProductProvider
}

func NewProductHandler(svc ProductProvider) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog/products", h.HandleList)
	mux.HandleFunc("POST /api/catalog/products", h.HandleCreate)
	mux.HandleFunc("GET /api/catalog/products/available", h.HandleListAvailable)
	mux.HandleFunc("GET /api/catalog/products/low-stock", h.HandleListLowStock)
	mux.HandleFunc("GET /api/catalog/products/price-range", h.HandleListByPriceRange)
	mux.HandleFunc("GET /api/catalog/products/search", h.HandleSearch)
	mux.HandleFunc("GET /api/catalog/products/status/{status}", h.HandleListByStatus)
	mux.HandleFunc("GET /api/catalog/products/category/{categoryID}", h.HandleListByCategory)
	mux.HandleFunc("GET /api/catalog/products/{id}", h.HandleGet)
	mux.HandleFunc("PUT /api/catalog/products/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /api/catalog/products/{id}", h.HandleDelete)
	mux.HandleFunc("PUT /api/catalog/products/{id}/status", h.HandleChangeStatus)
	mux.HandleFunc("PUT /api/catalog/products/{id}/increase-stock", h.HandleIncreaseStock)
	mux.HandleFunc("PUT /api/catalog/products/{id}/decrease-stock", h.HandleDecreaseStock)
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	product, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*product))
}

func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	product, err := h.svc.Create(r.Context(), input)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toResponse(*product))
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var input ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	product, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*product))
}

func (h *ProductHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

func (h *ProductHandler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var input struct {
		Status models.ProductStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid JSON body"))
		return
	}
	if input.Status == "" {
		respond.Error(w, apperr.Validation("the 'status' field is required"))
		return
	}

	product, err := h.svc.ChangeStatus(r.Context(), id, input.Status)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*product))
}

func (h *ProductHandler) HandleIncreaseStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var input struct {
		Quantity     *int             `json:"quantity"`
		PurchaseCost *decimal.Decimal `json:"purchaseCost"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid JSON body"))
		return
	}
	if input.Quantity == nil {
		respond.Error(w, apperr.Validation("the 'quantity' field is required"))
		return
	}

	product, err := h.svc.IncreaseStock(r.Context(), id, *input.Quantity, input.PurchaseCost)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*product))
}

func (h *ProductHandler) HandleDecreaseStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var input struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, apperr.Validation("invalid JSON body"))
		return
	}
	if input.Quantity == nil {
		respond.Error(w, apperr.Validation("the 'quantity' field is required"))
		return
	}

	product, err := h.svc.DecreaseStock(r.Context(), id, *input.Quantity)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(*product))
}

func (h *ProductHandler) HandleListByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.ProductStatus(r.PathValue("status"))

	products, err := h.svc.ListByStatus(r.Context(), status)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *ProductHandler) HandleListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseUint(r.PathValue("categoryID"), 10, 32)
	if err != nil {
		respond.Error(w, apperr.Validation("invalid category id"))
		return
	}

	products, err := h.svc.ListByCategory(r.Context(), uint(categoryID))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *ProductHandler) HandleListLowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := strconv.Atoi(r.URL.Query().Get("threshold"))
	if err != nil {
		respond.Error(w, apperr.Validation("the 'threshold' parameter must be an integer"))
		return
	}

	products, err := h.svc.ListLowStock(r.Context(), threshold)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *ProductHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.SearchByName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *ProductHandler) HandleListAvailable(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListAvailable(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func (h *ProductHandler) HandleListByPriceRange(w http.ResponseWriter, r *http.Request) {
	min, err := decimal.NewFromString(r.URL.Query().Get("min"))
	if err != nil {
		respond.Error(w, apperr.Validation("the 'min' parameter must be a number"))
		return
	}
	max, err := decimal.NewFromString(r.URL.Query().Get("max"))
	if err != nil {
		respond.Error(w, apperr.Validation("the 'max' parameter must be a number"))
		return
	}

	products, err := h.svc.ListByPriceRange(r.Context(), min, max)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toResponseList(products))
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid product id")
	}
	return uint(id), nil
}
