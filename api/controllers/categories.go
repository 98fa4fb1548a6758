package controllers

import (
	"net/http"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/api/validators"
	"github.com/fridgyapp/fridgy-backend/internal/categories"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

func CategoryList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type createCategoryRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	SortOrder int    `json:"sortOrder" validate:"omitempty,min=0"`
}

func CategoryCreate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Create(r.Context(), categories.CreateCategoryInput{
			Name:      validators.SanitizeString(req.Name, 120),
			SortOrder: req.SortOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}
