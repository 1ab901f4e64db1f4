// Package service maps dispatch results into the persisted publish history
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/dao"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/post/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/dispatch"
	publish "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
)

// Service handles business logic for the publish history
type Service struct {
	posts dao.PostRepository
}

// New creates a new post history service
func New(posts dao.PostRepository) *Service {
	return &Service{posts: posts}
}

// RecordDispatch persists one dispatch outcome and returns the record id
func (s *Service) RecordDispatch(ctx context.Context, req *publish.Request, result *dispatch.Result) (string, error) {
	now := time.Now()

	succeeded := 0
	results := make([]entity.TargetResult, 0, len(result.Attempts))
	for _, attempt := range result.Attempts {
		outcome := result.PerPlatform[attempt.Target.Key()]

		status := "failed"
		if outcome.Status == publish.OutcomeSuccess {
			status = "succeeded"
			succeeded++
		}

		results = append(results, entity.TargetResult{
			ID:             uuid.New().String(),
			Platform:       string(attempt.Target.Platform),
			TargetID:       attempt.Target.TargetID,
			Status:         status,
			PlatformPostID: outcome.PostID,
			StrategyUsed:   string(outcome.StrategyUsed),
			FailureReasons: outcome.FailureReasons,
			Warnings:       outcome.Warnings,
			CreatedAt:      now,
		})
	}

	rec := &entity.Record{
		ID:          uuid.New().String(),
		ShopID:      req.ShopID,
		Caption:     req.Caption,
		ProductLink: req.ProductLink,
		MediaType:   string(req.Media.DetectedType),
		Status:      entity.StatusFor(succeeded, len(results)),
		CreatedAt:   now,
	}

	if err := s.posts.Create(ctx, rec, results); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// GetPost retrieves one record with its target results
func (s *Service) GetPost(ctx context.Context, id string) (*entity.Record, []entity.TargetResult, error) {
	return s.posts.GetByID(ctx, id)
}

// ListInput narrows and pages a history listing
type ListInput struct {
	ShopID   string
	Platform string
	Status   string
	Limit    int
	Offset   int
}

// ListOutput is one page of history records
type ListOutput struct {
	Records []entity.Record
	Total   int64
}

// ListPosts retrieves a page of history records, newest first
func (s *Service) ListPosts(ctx context.Context, in ListInput) (*ListOutput, error) {
	filter := dao.Filter{
		ShopID:   in.ShopID,
		Platform: in.Platform,
	}
	if in.Status != "" {
		status := entity.Status(in.Status)
		filter.Status = &status
	}

	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := s.posts.List(ctx, filter, dao.ListOptions{
		Limit:  limit,
		Offset: in.Offset,
		Desc:   true,
	})
	if err != nil {
		return nil, err
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Records: records, Total: total}, nil
}
