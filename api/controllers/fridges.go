package controllers

import (
	"net/http"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/api/validators"
	"github.com/fridgyapp/fridgy-backend/internal/fridges"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type fridgeNameRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

func FridgeCreate(svc fridges.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req fridgeNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fridge, err := svc.Create(r.Context(), actor, householdID, fridges.CreateFridgeInput{Name: validators.SanitizeString(req.Name, 120)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, fridge)
	}
}

func FridgeList(svc fridges.Service, logg *logger.Logger) http.HandlerFunc {
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

		list, err := svc.List(r.Context(), actor, householdID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func FridgeGet(svc fridges.Service, logg *logger.Logger) http.HandlerFunc {
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

		fridge, err := svc.Get(r.Context(), actor, householdID, fridgeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, fridge)
	}
}

func FridgeRename(svc fridges.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req fridgeNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fridge, err := svc.Rename(r.Context(), actor, householdID, fridgeID, fridges.RenameFridgeInput{Name: validators.SanitizeString(req.Name, 120)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, fridge)
	}
}

func FridgeDelete(svc fridges.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), actor, householdID, fridgeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
