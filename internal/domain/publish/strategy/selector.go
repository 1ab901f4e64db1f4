// Package strategy decides, for one media item and one target platform,
// which publishing strategies to try and in what order. The order is
// produced once per attempt and never re-shuffled mid-flight.
package strategy

import (
	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
)

// Input captures everything the selection rules look at
type Input struct {
	MediaType media.MediaType
	HasLink   bool
	Platform  entity.Platform

	// Availability flags from normalization. An unreachable remote URL
	// rules out every URL-dependent strategy up front instead of letting
	// the platform rediscover the failure.
	HasLocalBytes     bool
	HasRemoteURL      bool
	RemoteUnreachable bool
}

// Select produces the ordered candidate list for one publish attempt.
//
// The ordering rules, in force since the text-link regression: a media
// bearing strategy always outranks the text fallback, and when an image
// must double as a clickable product link the feed-with-picture post comes
// first because no photo-upload strategy can produce a clickable image.
func Select(in Input) []entity.StrategyID {
	urlOK := in.HasRemoteURL && !in.RemoteUnreachable

	if in.Platform == entity.PlatformInstagramBusiness {
		return selectInstagram(in, urlOK)
	}

	var candidates []entity.StrategyID

	isVideo := in.MediaType != media.MediaTypeImage

	if !isVideo && in.HasLink && urlOK {
		candidates = append(candidates, entity.StrategyFeedPostWithPicture)
	}
	if in.HasLocalBytes {
		candidates = append(candidates, entity.StrategyDirectBinaryUpload)
	}
	if urlOK {
		candidates = append(candidates, entity.StrategyRemoteURLMediaPost)
	}

	// Always last. Videos carry the product link in the caption or a
	// follow-up comment instead of a picture parameter.
	candidates = append(candidates, entity.StrategyTextOnlyFallback)

	return candidates
}

// selectInstagram builds the candidate list for Instagram. Container
// ingestion is URL-only, so the direct-upload strategy there means
// "re-host local bytes, then create the container from that URL". Instagram
// has no text-only post, so the fallback is omitted entirely.
func selectInstagram(in Input, urlOK bool) []entity.StrategyID {
	var candidates []entity.StrategyID
	if in.HasLocalBytes {
		candidates = append(candidates, entity.StrategyDirectBinaryUpload)
	}
	if urlOK {
		candidates = append(candidates, entity.StrategyRemoteURLMediaPost)
	}
	return candidates
}
