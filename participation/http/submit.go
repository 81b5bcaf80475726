package http

import (
	"encoding/json"
	"net/http"

	"github.com/programme-lv/participation/evidence"
	"github.com/programme-lv/participation/httpjson"
	"github.com/programme-lv/participation/logger"
	"github.com/programme-lv/participation/participation"
)

func (h *ParticipationHttpHandler) Submit(w http.ResponseWriter, r *http.Request) {
	type submitRequest struct {
		Files     []File `json:"files"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		ClassDate string `json:"classDate"`
	}

	log := logger.FromContext(r.Context())

	var request submitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httpjson.HandleError(log, w, participation.NewErrInvalidInput(err.Error()))
		return
	}

	files := make([]evidence.RawArtifact, len(request.Files))
	for i, f := range request.Files {
		files[i] = evidence.RawArtifact{FileName: f.FileName, Content: f.FileContent}
	}

	decision, err := h.srvc.Submit(r.Context(), participation.SubmitParams{
		Files:     files,
		Name:      request.Name,
		Email:     request.Email,
		ClassDate: request.ClassDate,
	})
	if err != nil {
		httpjson.HandleError(log, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, mapDecision(decision))
}
