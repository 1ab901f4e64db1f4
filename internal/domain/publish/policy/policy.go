// Package policy orchestrates the publish use-case: classify the inbound
// media, normalize it, fan out to the configured targets and record the
// outcome. Interfaces are defined here on the consumer side; the app wires
// the concrete normalizer, dispatcher and post recorder in.
package policy

import (
	"context"
	"log/slog"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/normalize"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/sniff"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/dispatch"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
)

// Normalizer prepares a media source for publishing
type Normalizer interface {
	Normalize(ctx context.Context, src *media.MediaSource) (*normalize.Normalized, error)
}

// Dispatcher fans a publish request out to its targets
type Dispatcher interface {
	Dispatch(ctx context.Context, req *entity.Request, explicit []entity.PublishTarget) *dispatch.Result
}

// PostRecorder persists the outcome of a dispatch for the history API.
// Recording is best effort; its failure never fails the publish.
type PostRecorder interface {
	RecordDispatch(ctx context.Context, req *entity.Request, result *dispatch.Result) (string, error)
}

// Policy orchestrates publish use-cases
type Policy struct {
	normalizer Normalizer
	dispatcher Dispatcher
	recorder   PostRecorder
	logger     *slog.Logger
}

// New creates a publish policy. The recorder may be nil when history
// persistence is disabled.
func New(normalizer Normalizer, dispatcher Dispatcher, recorder PostRecorder, logger *slog.Logger) *Policy {
	return &Policy{
		normalizer: normalizer,
		dispatcher: dispatcher,
		recorder:   recorder,
		logger:     logger,
	}
}

// TargetInput is one explicit destination from the webhook payload
type TargetInput struct {
	Platform    string
	TargetID    string
	AccessToken string
}

// PublishInput is the webhook-layer input to one publish
type PublishInput struct {
	MediaBytes  []byte
	Filename    string
	MediaURL    string
	Caption     string
	ProductLink string
	ShopID      string
	Targets     []TargetInput
}

// PublishOutput is the per-platform outcome breakdown
type PublishOutput struct {
	PostRecordID string
	Detected     sniff.Classification
	PerPlatform  map[string]entity.Outcome
}

// Publish runs the full pipeline for one inbound request. The request is
// reported as wholly failed only when every resolved target failed every
// strategy; everything short of that is a (partial) success the caller can
// judge.
func (p *Policy) Publish(ctx context.Context, in PublishInput) (*PublishOutput, error) {
	if len(in.MediaBytes) == 0 && in.MediaURL == "" && in.Caption == "" {
		return nil, entity.ErrEmptyCaptionAndNoMedia
	}

	explicit, err := parseTargets(in.Targets)
	if err != nil {
		return nil, err
	}

	var src *media.MediaSource
	if len(in.MediaBytes) > 0 {
		src = media.NewUploadedBinary(in.MediaBytes, in.Filename)
	} else {
		src = media.NewRemoteURL(in.MediaURL)
		src.Filename = in.Filename
	}

	detected := sniff.Apply(src)
	p.logger.Info("media classified",
		"type", string(detected.Type),
		"confidence", detected.Confidence,
		"method", detected.Method,
	)

	req := &entity.Request{
		Media:       src,
		Caption:     in.Caption,
		ProductLink: in.ProductLink,
		ShopID:      in.ShopID,
	}

	if len(in.MediaBytes) > 0 || in.MediaURL != "" {
		normalized, err := p.normalizer.Normalize(ctx, src)
		if err != nil {
			// Normalization failure narrows the strategy space instead
			// of aborting: whatever acquisition path failed is marked
			// unusable and the selector routes around it.
			kind := normalize.KindOf(err)
			p.logger.Warn("normalization failed, continuing with reduced strategies",
				"kind", string(kind), "error", err)
			switch kind {
			case normalize.KindUnreachable:
				req.RemoteUnreachable = true
				src.Bytes = nil
			default:
				src.Bytes = nil
			}
		} else {
			req.ContentType = normalized.ContentType
		}
	}

	result := p.dispatcher.Dispatch(ctx, req, explicit)

	out := &PublishOutput{Detected: detected, PerPlatform: result.PerPlatform}

	if p.recorder != nil {
		recordID, err := p.recorder.RecordDispatch(ctx, req, result)
		if err != nil {
			p.logger.Warn("recording publish outcome failed", "error", err)
		} else {
			out.PostRecordID = recordID
		}
	}

	return out, nil
}

// DiagnoseInput feeds the classification diagnostic
type DiagnoseInput struct {
	MediaBytes []byte
	Filename   string
	MediaURL   string
}

// DiagnoseOutput reports the classification the pipeline would act on
type DiagnoseOutput struct {
	Detected  sniff.Classification
	ByteCount int
}

// Diagnose classifies media without publishing. Remote URLs are fetched
// through the normal download path; an unreachable URL still yields the
// hint-only classification rather than an error.
func (p *Policy) Diagnose(ctx context.Context, in DiagnoseInput) (*DiagnoseOutput, error) {
	if len(in.MediaBytes) == 0 && in.MediaURL == "" {
		return nil, media.ErrNoMedia
	}

	var src *media.MediaSource
	if len(in.MediaBytes) > 0 {
		src = media.NewUploadedBinary(in.MediaBytes, in.Filename)
	} else {
		src = media.NewRemoteURL(in.MediaURL)
		src.Filename = in.Filename
		if _, err := p.normalizer.Normalize(ctx, src); err != nil {
			p.logger.Info("diagnose download failed, classifying by hint only", "error", err)
		}
	}

	detected := sniff.Apply(src)
	return &DiagnoseOutput{Detected: detected, ByteCount: len(src.Bytes)}, nil
}

func parseTargets(in []TargetInput) ([]entity.PublishTarget, error) {
	if len(in) == 0 {
		return nil, nil
	}

	targets := make([]entity.PublishTarget, 0, len(in))
	for _, t := range in {
		platform, err := entity.ParsePlatform(t.Platform)
		if err != nil {
			return nil, err
		}
		if t.TargetID == "" {
			return nil, entity.ErrMissingTargetID
		}
		if t.AccessToken == "" {
			return nil, entity.ErrMissingToken
		}
		targets = append(targets, entity.PublishTarget{
			Platform:    platform,
			TargetID:    t.TargetID,
			AccessToken: t.AccessToken,
		})
	}
	return targets, nil
}
