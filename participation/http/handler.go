package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/programme-lv/participation/participation"
)

type ParticipationHttpHandler struct {
	srvc *participation.ParticipationSrvc
}

func NewParticipationHttpHandler(srvc *participation.ParticipationSrvc) *ParticipationHttpHandler {
	return &ParticipationHttpHandler{srvc: srvc}
}

func (h *ParticipationHttpHandler) RegisterRoutes(r chi.Router) {
	r.Post("/participation", h.Submit)
	r.Get("/participation/{email}/{classDate}", h.GetRecord)
}
