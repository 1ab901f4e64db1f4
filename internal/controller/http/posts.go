package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/service"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/response"
)

// PostHistory defines the interface for publish history reads
type PostHistory interface {
	GetPost(ctx context.Context, id string) (*entity.Record, []entity.TargetResult, error)
	ListPosts(ctx context.Context, in service.ListInput) (*service.ListOutput, error)
}

// PostHandler handles HTTP requests for the publish history
type PostHandler struct {
	history PostHistory
}

// NewPostHandler creates a new post history handler
func NewPostHandler(h PostHistory) *PostHandler {
	return &PostHandler{history: h}
}

// RegisterRoutes registers post history routes
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.List())
		r.Get("/{id}", h.Get())
	})
}

// TargetResultResponse is one platform outcome in responses
type TargetResultResponse struct {
	Platform       string   `json:"platform"`
	TargetID       string   `json:"target_id"`
	Status         string   `json:"status"`
	PlatformPostID string   `json:"platform_post_id,omitempty"`
	StrategyUsed   string   `json:"strategy_used,omitempty"`
	FailureReasons []string `json:"failure_reasons,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// PostResponse is one history record in responses
type PostResponse struct {
	ID          string                 `json:"id"`
	ShopID      string                 `json:"shop_id,omitempty"`
	Caption     string                 `json:"caption"`
	ProductLink string                 `json:"product_link,omitempty"`
	MediaType   string                 `json:"media_type"`
	Status      string                 `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	Targets     []TargetResultResponse `json:"targets,omitempty"`
}

// ListResponse is a page of history records
type ListResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int64          `json:"total"`
}

// List handles GET /posts
func (h *PostHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		in := service.ListInput{
			ShopID:   q.Get("shop_id"),
			Platform: q.Get("platform"),
			Status:   q.Get("status"),
		}
		if v := q.Get("limit"); v != "" {
			in.Limit, _ = strconv.Atoi(v)
		}
		if v := q.Get("offset"); v != "" {
			in.Offset, _ = strconv.Atoi(v)
		}

		out, err := h.history.ListPosts(r.Context(), in)
		if err != nil {
			response.InternalError(w, "listing posts")
			return
		}

		resp := ListResponse{Total: out.Total, Posts: make([]PostResponse, 0, len(out.Records))}
		for _, rec := range out.Records {
			resp.Posts = append(resp.Posts, toPostResponse(rec, nil))
		}
		response.OK(w, resp)
	}
}

// Get handles GET /posts/{id}
func (h *PostHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, results, err := h.history.GetPost(r.Context(), id)
		if errors.Is(err, entity.ErrPostNotFound) {
			response.NotFound(w, "post not found")
			return
		}
		if err != nil {
			response.InternalError(w, "getting post")
			return
		}

		response.OK(w, toPostResponse(*rec, results))
	}
}

func toPostResponse(rec entity.Record, results []entity.TargetResult) PostResponse {
	resp := PostResponse{
		ID:          rec.ID,
		ShopID:      rec.ShopID,
		Caption:     rec.Caption,
		ProductLink: rec.ProductLink,
		MediaType:   rec.MediaType,
		Status:      string(rec.Status),
		CreatedAt:   rec.CreatedAt,
	}
	for _, res := range results {
		resp.Targets = append(resp.Targets, TargetResultResponse{
			Platform:       res.Platform,
			TargetID:       res.TargetID,
			Status:         res.Status,
			PlatformPostID: res.PlatformPostID,
			StrategyUsed:   res.StrategyUsed,
			FailureReasons: res.FailureReasons,
			Warnings:       res.Warnings,
		})
	}
	return resp
}
