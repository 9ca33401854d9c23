package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresfontal/voltio-backend/api/responses"
	"github.com/andresfontal/voltio-backend/api/validators"
	"github.com/andresfontal/voltio-backend/internal/catalog"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/logger"
	"github.com/andresfontal/voltio-backend/pkg/pagination"
)

type createProductRequest struct {
	SKU         string            `json:"sku" validate:"required"`
	Name        string            `json:"name" validate:"required"`
	Category    string            `json:"category" validate:"required"`
	Subcategory *string           `json:"subcategory,omitempty"`
	Brand       string            `json:"brand" validate:"required"`
	Model       *string           `json:"model,omitempty"`
	Price       decimal.Decimal   `json:"price" validate:"required"`
	Stock       int               `json:"stock" validate:"min=0"`
	Unit        string            `json:"unit"`
	Rating      float64           `json:"rating" validate:"min=0,max=5"`
	Tags        []string          `json:"tags,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
}

type updateProductRequest struct {
	Name        *string            `json:"name,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Subcategory *string            `json:"subcategory,omitempty"`
	Brand       *string            `json:"brand,omitempty"`
	Model       *string            `json:"model,omitempty"`
	Price       *decimal.Decimal   `json:"price,omitempty"`
	Unit        *string            `json:"unit,omitempty"`
	Rating      *float64           `json:"rating,omitempty"`
	Tags        *[]string          `json:"tags,omitempty"`
	Specs       *map[string]string `json:"specs,omitempty"`
}

type adjustStockRequest struct {
	NewStock *int `json:"new_stock" validate:"required,min=0"`
}

func productIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "productID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}

// ProductsList serves the browse endpoint: free-text search, conjunctive
// filters, and fixed-size pages.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceMin, err := validators.ParseQueryDecimal(r, "price_min")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		priceMax, err := validators.ParseQueryDecimal(r, "price_max")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		availability, err := validators.ParseQueryAvailability(r, "availability")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := catalog.Query{
			Page:         pagination.NormalizePage(page),
			PriceMin:     priceMin,
			PriceMax:     priceMax,
			Availability: availability,
			Category:     validators.ParseQueryString(r, "category"),
			Brand:        validators.ParseQueryString(r, "brand"),
		}
		if search := validators.ParseQueryString(r, "search"); search != nil {
			query.Search = *search
		}

		result, err := svc.ListProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func CategoriesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), catalog.CreateProductInput{
			SKU:         body.SKU,
			Name:        body.Name,
			Category:    body.Category,
			Subcategory: body.Subcategory,
			Brand:       body.Brand,
			Model:       body.Model,
			Price:       body.Price,
			Stock:       body.Stock,
			Unit:        body.Unit,
			Rating:      body.Rating,
			Tags:        body.Tags,
			Specs:       body.Specs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"product": product})
	}
}

func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, catalog.UpdateProductInput{
			Name:        body.Name,
			Category:    body.Category,
			Subcategory: body.Subcategory,
			Brand:       body.Brand,
			Model:       body.Model,
			Price:       body.Price,
			Unit:        body.Unit,
			Rating:      body.Rating,
			Tags:        body.Tags,
			Specs:       body.Specs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}

func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ProductAdjustStock overwrites a product's stock count; negative values
// are rejected.
func ProductAdjustStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AdjustStock(r.Context(), id, *body.NewStock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"product": product})
	}
}
