package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
)

type ProductCatalog interface {
	Product(id string) (models.Product, bool)
	ProductsIn(categoryID string) []models.Product
}

type ProductHandler struct {
	catalog ProductCatalog
}

func NewProductHandler(catalog ProductCatalog) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// for eg: GET /api/v1/products?category=noodles
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		products := h.catalog.ProductsIn(r.URL.Query().Get("category"))
		if products == nil {
			products = []models.Product{}
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id := r.PathValue("id")

		product, ok := h.catalog.Product(id)
		if !ok {
			response.Error(w, errors.NotFoundError("Product not found").WithDetail(id))
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}
