package http

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/programme-lv/participation/httpjson"
	"github.com/programme-lv/participation/logger"
)

func (h *ParticipationHttpHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		httpjson.WriteErrorJson(w, "Invalid input: malformed email", http.StatusBadRequest, "")
		return
	}
	classDate := chi.URLParam(r, "classDate")

	rec, err := h.srvc.GetRecord(r.Context(), email, classDate)
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapRecord(rec))
}
