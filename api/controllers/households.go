package controllers

import (
	"net/http"
	"strings"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/api/validators"
	"github.com/fridgyapp/fridgy-backend/internal/households"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type householdNameRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

func HouseholdCreate(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req householdNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		household, err := svc.Create(r.Context(), actor, households.CreateHouseholdInput{Name: validators.SanitizeString(req.Name, 120)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, household)
	}
}

func HouseholdList(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMine(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func HouseholdGet(svc households.Service, logg *logger.Logger) http.HandlerFunc {
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

		household, err := svc.Get(r.Context(), actor, householdID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, household)
	}
}

func HouseholdRename(svc households.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req householdNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		household, err := svc.Rename(r.Context(), actor, householdID, households.RenameHouseholdInput{Name: validators.SanitizeString(req.Name, 120)})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, household)
	}
}

func HouseholdDelete(svc households.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), actor, householdID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func HouseholdLeave(svc households.Service, logg *logger.Logger) http.HandlerFunc {
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

		if err := svc.Leave(r.Context(), actor, householdID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "left"})
	}
}

func HouseholdMembers(svc households.Service, logg *logger.Logger) http.HandlerFunc {
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

		members, err := svc.ListMembers(r.Context(), actor, householdID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}

type setMemberRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func HouseholdSetMemberRole(svc households.Service, logg *logger.Logger) http.HandlerFunc {
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
		targetID, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setMemberRoleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// explicit role assignment must not fall back to member
		role := enums.HouseholdRole(strings.ToLower(strings.TrimSpace(req.Role)))
		if !role.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown role").
				WithDetails(map[string]any{"role": req.Role}))
			return
		}

		if err := svc.SetMemberRole(r.Context(), actor, householdID, households.SetRoleInput{UserID: targetID, Role: role}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"userId": targetID.String(), "role": string(role)})
	}
}

func HouseholdRemoveMember(svc households.Service, logg *logger.Logger) http.HandlerFunc {
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
		targetID, err := pathUUID(r, "userID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveMember(r.Context(), actor, householdID, targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
