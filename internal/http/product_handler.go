package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/stock-assistant/internal/service"
)

type productHandler struct {
	*Service
	productSvc service.ProductService
}

func newProductHandler(s *Service, productSvc service.ProductService) *productHandler {
	return &productHandler{
		Service:    s,
		productSvc: productSvc,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.ListAllProducts(r.Context())
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service list all products: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, listProductsResponse{
		Products: toProductResponses(products),
		Count:    len(products),
	})
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productSvc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service get product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, getProductResponse{Product: toProductResponse(product)})
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := h.decodeAndValidate(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), service.CreateProductParams{
		Name:         req.Name,
		Quantity:     *req.Quantity,
		MinThreshold: req.MinThreshold,
		Price:        req.Price,
		Category:     req.Category,
		Description:  req.Description,
	})
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service create product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusCreated, productMutationResponse{
		Message: "Product created successfully",
		Product: toProductResponse(product),
	})
}

func (h *productHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := h.decodeAndValidate(r, &req, false); err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), chi.URLParam(r, "productID"), service.UpdateProductParams{
		Name:         req.Name,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		Price:        req.Price,
		Category:     req.Category,
		Description:  req.Description,
	})
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service update product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, productMutationResponse{
		Message: "Product updated successfully",
		Product: toProductResponse(product),
	})
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.productSvc.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		h.writeError(w, r, fmt.Errorf("product service delete product: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

func (h *productHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productSvc.ListLowStockProducts(r.Context())
	if err != nil {
		h.writeError(w, r, fmt.Errorf("product service list low stock products: %w", err))
		return
	}

	h.writeJSON(w, r, http.StatusOK, alertsResponse{
		Alerts:  toProductResponses(products),
		Count:   len(products),
		Message: fmt.Sprintf("%d products need restocking", len(products)),
	})
}
