package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kiranalabs/storefront/api/responses"
	"github.com/kiranalabs/storefront/api/validators"
	catalogsvc "github.com/kiranalabs/storefront/internal/catalog"
	pkgerrors "github.com/kiranalabs/storefront/pkg/errors"
	"github.com/kiranalabs/storefront/pkg/logger"
)

type productResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Price           string         `json:"price"`
	DiscountPercent int            `json:"discountPercent"`
	DiscountedPrice string         `json:"discountedPrice"`
	Category        string         `json:"category"`
	Images          []string       `json:"images"`
	Stock           *int           `json:"stock,omitempty"`
	Sizes           []sizeResponse `json:"sizes,omitempty"`
}

type sizeResponse struct {
	Label string `json:"label"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

func newProductResponse(product catalogsvc.Product) productResponse {
	resp := productResponse{
		ID:              product.ID,
		Name:            product.Name,
		Description:     product.Description,
		Price:           product.Price.String(),
		DiscountPercent: product.DiscountPercent,
		DiscountedPrice: product.DiscountedPrice(product.Price).String(),
		Category:        product.Category,
		Images:          product.Images,
	}
	if product.Stock.HasVariants() {
		for _, variant := range product.Stock.Variants() {
			resp.Sizes = append(resp.Sizes, sizeResponse{
				Label: variant.Label,
				Price: variant.Price.String(),
				Stock: variant.Stock,
			})
		}
	} else {
		flat := product.Stock.Flat()
		resp.Stock = &flat
	}
	return resp
}

func newProductListResponse(products []catalogsvc.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, product := range products {
		out = append(out, newProductResponse(product))
	}
	return out
}

// ProductList returns the catalog, optionally filtered by category.
func ProductList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := strings.TrimSpace(r.URL.Query().Get("category"))

		products, err := svc.ListByCategory(r.Context(), category, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListResponse(products))
	}
}

// ProductSearch runs a catalog search for the q parameter.
func ProductSearch(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		products, err := svc.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductListResponse(products))
	}
}

// ProductDetail returns a single product.
func ProductDetail(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "productId")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductResponse(*product))
	}
}
