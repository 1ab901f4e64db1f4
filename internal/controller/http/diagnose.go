package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/policy"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/response"
)

// DiagnosePolicy defines the interface for classification diagnostics
type DiagnosePolicy interface {
	Diagnose(ctx context.Context, in policy.DiagnoseInput) (*policy.DiagnoseOutput, error)
}

// DiagnoseHandler exposes the classification pipeline for debugging
// mis-detected payloads without publishing anything
type DiagnoseHandler struct {
	policy DiagnosePolicy
}

// NewDiagnoseHandler creates a new diagnose handler
func NewDiagnoseHandler(p DiagnosePolicy) *DiagnoseHandler {
	return &DiagnoseHandler{policy: p}
}

// RegisterRoutes registers diagnostic routes
func (h *DiagnoseHandler) RegisterRoutes(r chi.Router) {
	r.Post("/diagnose/media", h.Diagnose())
}

// DiagnoseRequest is the JSON body; multipart carries a "media" file part
type DiagnoseRequest struct {
	MediaURL string `json:"media_url"`
	Filename string `json:"filename"`
}

// DiagnoseResponse reports how the pipeline classified the payload
type DiagnoseResponse struct {
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	Method     string `json:"method"`
	ByteCount  int    `json:"byte_count"`
}

// Diagnose handles POST /diagnose/media
func (h *DiagnoseHandler) Diagnose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := parseDiagnoseRequest(r)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		out, err := h.policy.Diagnose(r.Context(), *in)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		response.OK(w, DiagnoseResponse{
			Type:       string(out.Detected.Type),
			Confidence: out.Detected.Confidence,
			Method:     out.Detected.Method,
			ByteCount:  out.ByteCount,
		})
	}
}

func parseDiagnoseRequest(r *http.Request) (*policy.DiagnoseInput, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errors.New("invalid multipart form")
		}
		in := &policy.DiagnoseInput{MediaURL: r.FormValue("media_url")}
		file, header, err := r.FormFile("media")
		if err == nil {
			defer file.Close()
			in.MediaBytes, err = io.ReadAll(file)
			if err != nil {
				return nil, errors.New("reading media part")
			}
			in.Filename = header.Filename
		} else if !errors.Is(err, http.ErrMissingFile) {
			return nil, errors.New("invalid media part")
		}
		return in, nil
	}

	var req DiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON")
	}
	return &policy.DiagnoseInput{MediaURL: req.MediaURL, Filename: req.Filename}, nil
}
