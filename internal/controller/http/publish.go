package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/policy"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/response"
)

// Uploaded media is capped well above anything the platforms accept.
const maxUploadBytes = 512 << 20

// PublishPolicy defines the interface for publish operations
// Interface is defined by consumer (handler), not provider (policy)
type PublishPolicy interface {
	Publish(ctx context.Context, in policy.PublishInput) (*policy.PublishOutput, error)
}

// PublishHandler handles the inbound webhook
type PublishHandler struct {
	policy PublishPolicy
}

// NewPublishHandler creates a new publish handler
func NewPublishHandler(p PublishPolicy) *PublishHandler {
	return &PublishHandler{policy: p}
}

// RegisterRoutes registers webhook routes
func (h *PublishHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook/publish", h.Publish())
}

// TargetRequest is one explicit destination in the payload
type TargetRequest struct {
	Platform    string `json:"platform"`
	TargetID    string `json:"target_id"`
	AccessToken string `json:"access_token"`
}

// PublishRequest is the JSON webhook body. Multipart requests carry the
// same fields as form values plus a "media" file part.
type PublishRequest struct {
	Caption     string          `json:"caption"`
	ProductLink string          `json:"product_link"`
	ShopID      string          `json:"shop_id"`
	MediaURL    string          `json:"media_url"`
	Targets     []TargetRequest `json:"targets"`
}

// DetectedResponse reports the classification the pipeline acted on
type DetectedResponse struct {
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	Method     string `json:"method"`
}

// PublishResponse is the webhook reply
type PublishResponse struct {
	PostRecordID string                    `json:"post_record_id,omitempty"`
	Detected     DetectedResponse          `json:"detected"`
	Results      map[string]entity.Outcome `json:"results"`
}

// Publish handles POST /webhook/publish
func (h *PublishHandler) Publish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := parsePublishRequest(r)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		out, err := h.policy.Publish(r.Context(), *in)
		if err != nil {
			writePublishError(w, err)
			return
		}

		resp := PublishResponse{
			PostRecordID: out.PostRecordID,
			Detected: DetectedResponse{
				Type:       string(out.Detected.Type),
				Confidence: out.Detected.Confidence,
				Method:     out.Detected.Method,
			},
			Results: out.PerPlatform,
		}

		succeeded, total := 0, 0
		for _, outcome := range out.PerPlatform {
			total++
			if outcome.Status == entity.OutcomeSuccess {
				succeeded++
			}
		}
		// The breakdown goes back on every status: the failed case is
		// where the caller needs the per-strategy reasons most.
		switch {
		case total > 0 && succeeded == total:
			response.OK(w, resp)
		case succeeded > 0:
			response.MultiStatus(w, resp)
		default:
			response.JSON(w, http.StatusUnprocessableEntity, resp)
		}
	}
}

// parsePublishRequest accepts JSON or multipart payloads
func parsePublishRequest(r *http.Request) (*policy.PublishInput, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return parseMultipart(r)
	}

	var req PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON")
	}
	return toPublishInput(req, nil, ""), nil
}

func parseMultipart(r *http.Request) (*policy.PublishInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, errors.New("invalid multipart form")
	}

	req := PublishRequest{
		Caption:     r.FormValue("caption"),
		ProductLink: r.FormValue("product_link"),
		ShopID:      r.FormValue("shop_id"),
		MediaURL:    r.FormValue("media_url"),
	}
	if raw := r.FormValue("targets"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Targets); err != nil {
			return nil, errors.New("invalid targets JSON")
		}
	}

	var data []byte
	var filename string
	file, header, err := r.FormFile("media")
	if err == nil {
		defer file.Close()
		data, err = io.ReadAll(file)
		if err != nil {
			return nil, errors.New("reading media part")
		}
		filename = header.Filename
	} else if !errors.Is(err, http.ErrMissingFile) {
		return nil, errors.New("invalid media part")
	}

	return toPublishInput(req, data, filename), nil
}

func toPublishInput(req PublishRequest, data []byte, filename string) *policy.PublishInput {
	in := &policy.PublishInput{
		MediaBytes:  data,
		Filename:    filename,
		MediaURL:    req.MediaURL,
		Caption:     req.Caption,
		ProductLink: req.ProductLink,
		ShopID:      req.ShopID,
	}
	for _, t := range req.Targets {
		in.Targets = append(in.Targets, policy.TargetInput{
			Platform:    t.Platform,
			TargetID:    t.TargetID,
			AccessToken: t.AccessToken,
		})
	}
	return in
}

func writePublishError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrEmptyCaptionAndNoMedia),
		errors.Is(err, entity.ErrInvalidPlatform),
		errors.Is(err, entity.ErrMissingTargetID),
		errors.Is(err, entity.ErrMissingToken),
		errors.Is(err, media.ErrNoMedia):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "publish failed")
	}
}
