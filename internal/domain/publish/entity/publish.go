package entity

import (
	"fmt"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
)

// Platform identifies one destination kind
type Platform string

const (
	PlatformFacebookPage      Platform = "facebook_page"
	PlatformFacebookGroup     Platform = "facebook_group"
	PlatformInstagramBusiness Platform = "instagram"
)

// ParsePlatform validates a wire-format platform name
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformFacebookPage, PlatformFacebookGroup, PlatformInstagramBusiness:
		return Platform(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
	}
}

// PublishTarget is one destination for a publish attempt. The access token
// is owned by the caller's session; it is never persisted or refreshed here.
type PublishTarget struct {
	Platform    Platform
	TargetID    string
	AccessToken string
}

// Key returns the outcome-map key for this target
func (t PublishTarget) Key() string {
	return string(t.Platform) + ":" + t.TargetID
}

// StrategyID identifies one concrete way of turning media plus caption into
// a platform post
type StrategyID string

const (
	// StrategyFeedPostWithPicture posts to the feed with a picture
	// parameter: the only strategy that renders a clickable image
	// deep-linking to the product URL.
	StrategyFeedPostWithPicture StrategyID = "feed_post_with_picture"
	// StrategyDirectBinaryUpload uploads raw bytes straight to the media
	// creation endpoint, guaranteeing the media renders as media.
	StrategyDirectBinaryUpload StrategyID = "direct_binary_upload"
	// StrategyRemoteURLMediaPost hands the platform the original URL and
	// lets it fetch the media itself.
	StrategyRemoteURLMediaPost StrategyID = "remote_url_media_post"
	// StrategyTextOnlyFallback posts the caption alone. Strictly a last
	// resort: choosing it ahead of an available media strategy once caused
	// a quarter of posts to render as bare text links.
	StrategyTextOnlyFallback StrategyID = "text_only_fallback"
)

// IsMediaBearing reports whether the strategy actually carries media
func (s StrategyID) IsMediaBearing() bool {
	return s != StrategyTextOnlyFallback
}

// StepStatus classifies the outcome of a single strategy execution
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepTryNext   StepStatus = "try_next"
	StepFatal     StepStatus = "fatal"
)

// Step records one tried strategy inside an attempt
type Step struct {
	Strategy StrategyID
	Status   StepStatus
	PostID   string // set when succeeded
	Reason   string // set when failed
}

// PublishAttempt is one executor run against one target. Candidates are
// produced once by the selector and never re-ordered mid-attempt.
type PublishAttempt struct {
	Target     PublishTarget
	Candidates []StrategyID
	Tried      []Step
}

// Record appends a tried step
func (a *PublishAttempt) Record(step Step) {
	a.Tried = append(a.Tried, step)
}

// Outcome is the terminal result of one target's publish attempt. Exactly
// one of the two shapes is populated, discriminated by Status.
type Outcome struct {
	Status         OutcomeStatus `json:"status"`
	PostID         string        `json:"post_id,omitempty"`
	StrategyUsed   StrategyID    `json:"strategy_used,omitempty"`
	FailureReasons []string      `json:"failure_reasons,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
}

// OutcomeStatus is the terminal state of an attempt
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Succeeded builds a success outcome
func Succeeded(postID string, strategy StrategyID) Outcome {
	return Outcome{Status: OutcomeSuccess, PostID: postID, StrategyUsed: strategy}
}

// Failed builds a failure outcome aggregating every tried strategy's reason
func Failed(reasons []string) Outcome {
	return Outcome{Status: OutcomeFailed, FailureReasons: reasons}
}

// Request is the input to one dispatch: a normalized media source plus its
// caption/link context. The media source is read-only once normalized.
type Request struct {
	Media             *media.MediaSource
	ContentType       string
	Caption           string
	ProductLink       string
	ShopID            string
	RemoteUnreachable bool // set when normalization failed with Unreachable
}

// HasLink reports whether a product link accompanies the request
func (r *Request) HasLink() bool {
	return r.ProductLink != ""
}
