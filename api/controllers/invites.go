package controllers

import (
	"net/http"
	"time"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/api/validators"
	"github.com/fridgyapp/fridgy-backend/internal/invites"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type createInviteRequest struct {
	TTLHours int `json:"ttlHours" validate:"omitempty,min=1,max=720"`
	MaxUses  int `json:"maxUses" validate:"omitempty,min=1,max=1000"`
}

func InviteCreate(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
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

		var req createInviteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invite, err := svc.Create(r.Context(), actor, householdID, invites.CreateInviteInput{
			TTL:     time.Duration(req.TTLHours) * time.Hour,
			MaxUses: req.MaxUses,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invite)
	}
}

func InviteList(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
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

func InviteRevoke(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
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
		inviteID, err := pathUUID(r, "inviteID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Revoke(r.Context(), actor, householdID, inviteID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "revoked"})
	}
}

type redeemInviteRequest struct {
	Code string `json:"code" validate:"required,min=4,max=32"`
}

func InviteRedeem(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req redeemInviteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Redeem(r.Context(), actor, req.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
