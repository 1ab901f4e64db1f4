// Package normalize turns a classified media source into publishable local
// bytes: remote URLs are downloaded with bounded retries, images are decode
// validated and corrected, videos pass through untouched.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/httpx/retry"
)

// ErrorKind classifies a normalization failure. The strategy selector uses
// it to skip strategies whose precondition is already known to be unmet.
type ErrorKind string

const (
	KindUnreachable       ErrorKind = "unreachable"
	KindEmptyOrTooSmall   ErrorKind = "empty_or_too_small"
	KindUnrecognizedImage ErrorKind = "unrecognized_image"
	KindOther             ErrorKind = "other"
)

// Error is a normalization failure with its kind attached
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("normalize: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain, defaulting to Other
func KindOf(err error) ErrorKind {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Kind
	}
	return KindOther
}

const (
	// Bodies below this are treated as corrupt rather than as media.
	minMediaBytes = 100

	// Neither image dimension may exceed this after normalization.
	maxImageDimension = 1080
)

// Config bounds the download path
type Config struct {
	DownloadTimeout time.Duration // per attempt
	Retry           retry.Config
}

// DefaultConfig returns the defaults used in production
func DefaultConfig() Config {
	return Config{
		DownloadTimeout: 30 * time.Second,
		Retry:           retry.DefaultConfig(),
	}
}

// Normalized is the output of a successful normalization
type Normalized struct {
	Bytes       []byte
	Type        entity.MediaType
	ContentType string
}

// Normalizer prepares media sources for publishing
type Normalizer struct {
	cfg    Config
	client *http.Client
}

// New creates a Normalizer. A nil client gets a default with the configured
// per-attempt timeout.
func New(cfg Config, client *http.Client) *Normalizer {
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 30 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.DownloadTimeout}
	}
	return &Normalizer{cfg: cfg, client: client}
}

// Normalize ensures the source is available as local bytes and, for images,
// decode-validated and corrected. The source's Bytes are updated in place on
// success so downstream strategies can reuse them.
func (n *Normalizer) Normalize(ctx context.Context, src *entity.MediaSource) (*Normalized, error) {
	data := src.Bytes

	if len(data) == 0 {
		if src.URL == "" {
			return nil, &Error{Kind: KindOther, Err: entity.ErrNoMedia}
		}
		downloaded, err := n.download(ctx, src.URL)
		if err != nil {
			return nil, err
		}
		data = downloaded
	}

	if len(data) < minMediaBytes {
		return nil, &Error{Kind: KindEmptyOrTooSmall, Err: entity.ErrEmptyOrTooSmall}
	}

	switch src.DetectedType {
	case entity.MediaTypeImage:
		normalized, contentType, err := normalizeImage(data)
		if err != nil {
			return nil, &Error{Kind: KindUnrecognizedImage, Err: err}
		}
		src.Bytes = normalized
		return &Normalized{Bytes: normalized, Type: entity.MediaTypeImage, ContentType: contentType}, nil
	default:
		// Videos (and the video-biased unknown case) pass through; any
		// transcoding is an external concern.
		src.Bytes = data
		return &Normalized{Bytes: data, Type: src.DetectedType, ContentType: "video/mp4"}, nil
	}
}

// download fetches a remote URL with bounded retries. Non-2xx statuses are
// retried like transport errors; if every attempt fails the result is
// Unreachable.
func (n *Normalizer) download(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := retry.DoIf(ctx, n.cfg.Retry,
		func() ([]byte, error) {
			reqCtx, cancel := context.WithTimeout(ctx, n.cfg.DownloadTimeout)
			defer cancel()

			req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
			if err != nil {
				return nil, err
			}
			resp, err := n.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			return io.ReadAll(resp.Body)
		},
		func(_ []byte, err error) bool { return err != nil },
	)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Err: fmt.Errorf("downloading %s: %w", rawURL, err)}
	}
	if len(body) < minMediaBytes {
		return nil, &Error{Kind: KindEmptyOrTooSmall, Err: entity.ErrEmptyOrTooSmall}
	}
	return body, nil
}
