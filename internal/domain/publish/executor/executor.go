// Package executor runs one publish attempt against one target: it tries
// the selected strategies strictly in order, advances past strategy-specific
// failures, stops dead on fatal ones, and returns the first success or an
// aggregated failure.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/retry"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/upstream/graph"
)

// Rehoster republishes local bytes at a public URL. Instagram ingestion is
// URL-only, so the direct-upload strategy there needs somewhere to put the
// bytes first.
type Rehoster interface {
	Rehost(ctx context.Context, data []byte, contentType, filename string) (string, error)
}

// Executor tries candidate strategies against the Graph API
type Executor struct {
	client  *graph.Client
	rehost  Rehoster
	logger  *slog.Logger
	igRetry retry.Config
}

// Option configures the Executor
type Option func(*Executor)

// WithRehoster sets the re-hosting backend for Instagram binary uploads
func WithRehoster(r Rehoster) Option {
	return func(e *Executor) { e.rehost = r }
}

// WithInstagramRetry bounds the container-publish retry loop
func WithInstagramRetry(cfg retry.Config) Option {
	return func(e *Executor) { e.igRetry = cfg }
}

// New creates an Executor
func New(client *graph.Client, logger *slog.Logger, opts ...Option) *Executor {
	e := &Executor{
		client: client,
		logger: logger,
		igRetry: retry.Config{
			MaxRetries: 4,
			BaseDelay:  2 * time.Second,
			MaxDelay:   15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input is everything one attempt needs. The media source is read-only
// here; normalization happened upstream.
type Input struct {
	Candidates  []entity.StrategyID
	Media       *media.MediaSource
	ContentType string
	Caption     string
	ProductLink string
	Target      entity.PublishTarget
}

// Execute walks the candidate strategies in order and returns the terminal
// outcome plus the full attempt record for diagnostics.
func (e *Executor) Execute(ctx context.Context, in Input) (entity.Outcome, *entity.PublishAttempt) {
	attempt := &entity.PublishAttempt{
		Target:     in.Target,
		Candidates: in.Candidates,
	}

	if len(in.Candidates) == 0 {
		attempt.Record(entity.Step{Status: entity.StepFatal, Reason: entity.ErrNoStrategies.Error()})
		return entity.Failed([]string{entity.ErrNoStrategies.Error()}), attempt
	}

	var reasons []string
	for _, strategy := range in.Candidates {
		postID, err := e.run(ctx, strategy, in)
		if err == nil {
			step := entity.Step{Strategy: strategy, Status: entity.StepSucceeded, PostID: postID}
			attempt.Record(step)

			outcome := entity.Succeeded(postID, strategy)
			e.addLinkComment(ctx, strategy, in, postID, &outcome)
			return outcome, attempt
		}

		reason := fmt.Sprintf("%s: %v", strategy, err)
		if graph.IsFatal(err) {
			// Auth and permission problems cannot be fixed by a
			// different endpoint; stop immediately.
			attempt.Record(entity.Step{Strategy: strategy, Status: entity.StepFatal, Reason: reason})
			e.logger.Warn("publish attempt hit fatal error",
				"target", in.Target.Key(), "strategy", string(strategy), "error", err)
			return entity.Failed(append(reasons, reason)), attempt
		}

		attempt.Record(entity.Step{Strategy: strategy, Status: entity.StepTryNext, Reason: reason})
		e.logger.Info("strategy failed, advancing to next candidate",
			"target", in.Target.Key(), "strategy", string(strategy), "error", err)
		reasons = append(reasons, reason)
	}

	return entity.Failed(reasons), attempt
}

// run executes a single strategy and returns the created post id
func (e *Executor) run(ctx context.Context, strategy entity.StrategyID, in Input) (string, error) {
	if in.Target.Platform == entity.PlatformInstagramBusiness {
		return e.runInstagram(ctx, strategy, in)
	}

	switch strategy {
	case entity.StrategyFeedPostWithPicture:
		out, err := e.client.PublishFeed(ctx, graph.PublishFeedInput{
			TargetID:    in.Target.TargetID,
			AccessToken: in.Target.AccessToken,
			Message:     in.Caption,
			Link:        in.ProductLink,
			Picture:     in.Media.URL,
		})
		if err != nil {
			return "", err
		}
		return out.ResultID(), nil

	case entity.StrategyDirectBinaryUpload:
		if in.Media.DetectedType == media.MediaTypeImage {
			out, err := e.client.PublishPhotoBinary(ctx, graph.PublishPhotoBinaryInput{
				TargetID:    in.Target.TargetID,
				AccessToken: in.Target.AccessToken,
				Data:        in.Media.Bytes,
				Filename:    in.Media.Filename,
				Caption:     in.Caption,
			})
			if err != nil {
				return "", err
			}
			return out.ResultID(), nil
		}
		out, err := e.client.PublishVideoBinary(ctx, graph.PublishVideoBinaryInput{
			TargetID:    in.Target.TargetID,
			AccessToken: in.Target.AccessToken,
			Data:        in.Media.Bytes,
			Filename:    in.Media.Filename,
			Description: in.Caption,
		})
		if err != nil {
			return "", err
		}
		return out.ResultID(), nil

	case entity.StrategyRemoteURLMediaPost:
		if in.Media.DetectedType == media.MediaTypeImage {
			out, err := e.client.PublishPhotoURL(ctx, graph.PublishPhotoURLInput{
				TargetID:    in.Target.TargetID,
				AccessToken: in.Target.AccessToken,
				ImageURL:    in.Media.URL,
				Caption:     in.Caption,
			})
			if err != nil {
				return "", err
			}
			return out.ResultID(), nil
		}
		out, err := e.client.PublishVideoURL(ctx, graph.PublishVideoURLInput{
			TargetID:    in.Target.TargetID,
			AccessToken: in.Target.AccessToken,
			VideoURL:    in.Media.URL,
			Description: in.Caption,
		})
		if err != nil {
			return "", err
		}
		return out.ResultID(), nil

	case entity.StrategyTextOnlyFallback:
		message := in.Caption
		if in.ProductLink != "" {
			message = message + "\n" + in.ProductLink
		}
		out, err := e.client.PublishFeed(ctx, graph.PublishFeedInput{
			TargetID:    in.Target.TargetID,
			AccessToken: in.Target.AccessToken,
			Message:     message,
		})
		if err != nil {
			return "", err
		}
		return out.ResultID(), nil

	default:
		return "", fmt.Errorf("unknown strategy %q", strategy)
	}
}

// errContainerNotReady marks an Instagram container still processing; the
// publish step retries on it with backoff instead of sleeping blindly.
var errContainerNotReady = errors.New("media container is not ready for publishing")

// runInstagram executes one strategy as the two-phase Instagram publish:
// container creation is step one, publish-the-container step two, and a
// failure at either step is a failure of this strategy, not a separate one.
func (e *Executor) runInstagram(ctx context.Context, strategy entity.StrategyID, in Input) (string, error) {
	var mediaURL string
	switch strategy {
	case entity.StrategyDirectBinaryUpload:
		if e.rehost == nil {
			return "", errors.New("no re-hosting backend configured for binary upload")
		}
		hosted, err := e.rehost.Rehost(ctx, in.Media.Bytes, in.ContentType, in.Media.Filename)
		if err != nil {
			return "", fmt.Errorf("re-hosting media: %w", err)
		}
		mediaURL = hosted
	case entity.StrategyRemoteURLMediaPost:
		mediaURL = in.Media.URL
	default:
		return "", fmt.Errorf("strategy %q not supported on instagram", strategy)
	}

	containerIn := graph.CreateContainerInput{
		UserID:      in.Target.TargetID,
		AccessToken: in.Target.AccessToken,
		Caption:     in.Caption,
	}
	if in.Media.DetectedType == media.MediaTypeImage {
		containerIn.ImageURL = mediaURL
	} else {
		containerIn.VideoURL = mediaURL
	}

	container, err := e.client.CreateContainer(ctx, containerIn)
	if err != nil {
		return "", fmt.Errorf("creating container: %w", err)
	}

	// Container processing is asynchronous on the platform side,
	// especially for video. Publish under a bounded retry so a container
	// that is already ready goes out immediately.
	out, err := retry.DoIf(ctx, e.igRetry,
		func() (*graph.PublishContainerOutput, error) {
			status, err := e.client.GetContainerStatus(ctx, graph.GetContainerStatusInput{
				ContainerID: container.ID,
				AccessToken: in.Target.AccessToken,
			})
			if err != nil {
				return nil, err
			}
			switch status.Status {
			case graph.ContainerStatusError:
				return nil, fmt.Errorf("container processing failed: %s", status.ErrorMessage)
			case graph.ContainerStatusExpired:
				return nil, errors.New("container expired before publishing")
			case graph.ContainerStatusInProgress:
				return nil, errContainerNotReady
			}

			return e.client.PublishContainer(ctx, graph.PublishContainerInput{
				UserID:      in.Target.TargetID,
				AccessToken: in.Target.AccessToken,
				ContainerID: container.ID,
			})
		},
		func(_ *graph.PublishContainerOutput, err error) bool {
			return errors.Is(err, errContainerNotReady)
		},
	)
	if err != nil {
		return "", fmt.Errorf("publishing container: %w", err)
	}
	return out.ID, nil
}

// addLinkComment posts the product link as a follow-up comment when the
// winning strategy did not embed it in the post body. Best effort: failure
// only appends a warning, the outcome stays Succeeded.
func (e *Executor) addLinkComment(ctx context.Context, strategy entity.StrategyID, in Input, postID string, outcome *entity.Outcome) {
	if in.ProductLink == "" {
		return
	}
	// Feed-with-picture embeds the link itself, and the text fallback
	// inlines it into the message.
	if strategy == entity.StrategyFeedPostWithPicture || strategy == entity.StrategyTextOnlyFallback {
		return
	}

	_, err := e.client.CreateComment(ctx, graph.CreateCommentInput{
		PostID:      postID,
		AccessToken: in.Target.AccessToken,
		Message:     in.ProductLink,
	})
	if err != nil {
		warning := fmt.Sprintf("link comment failed: %v", err)
		outcome.Warnings = append(outcome.Warnings, warning)
		e.logger.Warn("follow-up link comment failed",
			"target", in.Target.Key(), "post_id", postID, "error", err)
	}
}
