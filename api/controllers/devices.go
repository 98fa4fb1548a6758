package controllers

import (
	"net/http"

	"github.com/fridgyapp/fridgy-backend/api/responses"
	"github.com/fridgyapp/fridgy-backend/api/validators"
	"github.com/fridgyapp/fridgy-backend/internal/devices"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type registerDeviceRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	P256dh   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}

func DeviceRegister(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req registerDeviceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Register(r.Context(), actor, devices.RegisterInput{
			Endpoint: req.Endpoint,
			P256dh:   req.P256dh,
			Auth:     req.Auth,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sub)
	}
}

func DeviceList(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type unregisterDeviceRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

func DeviceUnregister(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req unregisterDeviceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unregister(r.Context(), actor, req.Endpoint); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unregistered"})
	}
}
