package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/api/validators"
	"github.com/fridgyapp/fridgy-backend/internal/products"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

func upcParam(r *http.Request) (string, error) {
	upc := strings.TrimSpace(chi.URLParam(r, "upc"))
	if upc == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "upc required")
	}
	return upc, nil
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upc, err := upcParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), upc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type scanRequest struct {
	UPC string `json:"upc" validate:"required,min=8,max=14"`
}

// ProductScan resolves a barcode for a household and records the scan event.
func ProductScan(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		householdID, err := pathUUID(r, "householdID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req scanRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Scan(r.Context(), actor, householdID, req.UPC)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type upsertProductRequest struct {
	Name       string           `json:"name" validate:"required,max=200"`
	Brand      string           `json:"brand" validate:"omitempty,max=200"`
	CategoryID *uuid.UUID       `json:"categoryId"`
	SizeAmount *decimal.Decimal `json:"sizeAmount"`
	SizeUnit   *string          `json:"sizeUnit"`
}

func ProductUpsert(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upc, err := upcParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req upsertProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := products.UpsertProductInput{
			Name:       validators.SanitizeString(req.Name, 200),
			Brand:      validators.SanitizeString(req.Brand, 200),
			CategoryID: req.CategoryID,
			SizeAmount: req.SizeAmount,
		}
		if req.SizeUnit != nil {
			unit, err := enums.ParseSizeUnit(*req.SizeUnit)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sizeUnit"))
				return
			}
			input.SizeUnit = &unit
		}

		product, err := svc.Upsert(r.Context(), upc, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductSearch(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "q required"))
			return
		}

		limit := 0
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = value
		}

		results, err := svc.Search(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

func ProductImagePresign(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upc, err := upcParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.PresignImageUpload(r.Context(), upc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
