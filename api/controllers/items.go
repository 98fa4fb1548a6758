package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/api/validators"
	"github.com/fridgyapp/fridgy-backend/internal/items"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	"github.com/fridgyapp/fridgy-backend/pkg/pagination"
)

type addItemRequest struct {
	UPC        *string    `json:"upc" validate:"omitempty,min=8,max=14"`
	Name       string     `json:"name" validate:"required,max=200"`
	Quantity   int        `json:"quantity" validate:"omitempty,min=1"`
	CategoryID *uuid.UUID `json:"categoryId"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

func ItemAdd(svc items.Service, logg *logger.Logger) http.HandlerFunc {
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
		fridgeID, err := pathUUID(r, "fridgeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), actor, householdID, fridgeID, items.AddItemInput{
			UPC:        req.UPC,
			Name:       validators.SanitizeString(req.Name, 200),
			Quantity:   req.Quantity,
			CategoryID: req.CategoryID,
			ExpiresAt:  req.ExpiresAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func ItemList(svc items.Service, logg *logger.Logger) http.HandlerFunc {
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
		fridgeID, err := pathUUID(r, "fridgeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))}
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}

		page, err := svc.List(r.Context(), actor, householdID, fridgeID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ItemGet(svc items.Service, logg *logger.Logger) http.HandlerFunc {
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
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), actor, householdID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// updateItemRequest keeps raw JSON for the nullable fields so "absent" and
// "null" survive decoding. A literal null clears the column.
type updateItemRequest struct {
	Name       *string         `json:"name" validate:"omitempty,max=200"`
	Quantity   *int            `json:"quantity" validate:"omitempty,min=0"`
	CategoryID json.RawMessage `json:"categoryId"`
	ExpiresAt  json.RawMessage `json:"expiresAt"`
}

func ItemUpdate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
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
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := items.UpdateItemInput{Name: req.Name, Quantity: req.Quantity}

		if req.CategoryID != nil {
			category, err := decodeNullableUUID(req.CategoryID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid categoryId"))
				return
			}
			input.CategoryID = &category
		}
		if req.ExpiresAt != nil {
			expires, err := decodeNullableTime(req.ExpiresAt)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid expiresAt"))
				return
			}
			input.ExpiresAt = &expires
		}

		item, err := svc.Update(r.Context(), actor, householdID, itemID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func ItemRemove(svc items.Service, logg *logger.Logger) http.HandlerFunc {
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
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Remove(r.Context(), actor, householdID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func decodeNullableUUID(raw json.RawMessage) (*uuid.UUID, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func decodeNullableTime(raw json.RawMessage) (*time.Time, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var at time.Time
	if err := json.Unmarshal(raw, &at); err != nil {
		return nil, err
	}
	return &at, nil
}
