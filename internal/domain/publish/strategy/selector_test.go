package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
)

func TestSelectImageWithLinkPrefersClickableFeedPost(t *testing.T) {
	got := Select(Input{
		MediaType:     media.MediaTypeImage,
		HasLink:       true,
		Platform:      entity.PlatformFacebookPage,
		HasLocalBytes: true,
		HasRemoteURL:  true,
	})

	require.NotEmpty(t, got)
	assert.Equal(t, entity.StrategyFeedPostWithPicture, got[0])
	assert.Equal(t, []entity.StrategyID{
		entity.StrategyFeedPostWithPicture,
		entity.StrategyDirectBinaryUpload,
		entity.StrategyRemoteURLMediaPost,
		entity.StrategyTextOnlyFallback,
	}, got)
}

func TestSelectImageWithoutLinkStartsWithDirectUpload(t *testing.T) {
	got := Select(Input{
		MediaType:     media.MediaTypeImage,
		Platform:      entity.PlatformFacebookPage,
		HasLocalBytes: true,
		HasRemoteURL:  true,
	})

	require.NotEmpty(t, got)
	assert.Equal(t, entity.StrategyDirectBinaryUpload, got[0])
	assert.NotContains(t, got, entity.StrategyFeedPostWithPicture)
}

func TestSelectImageURLOnlyStartsWithRemotePost(t *testing.T) {
	got := Select(Input{
		MediaType:    media.MediaTypeImage,
		Platform:     entity.PlatformFacebookPage,
		HasRemoteURL: true,
	})

	require.NotEmpty(t, got)
	assert.Equal(t, entity.StrategyRemoteURLMediaPost, got[0])
}

func TestSelectVideoNeverUsesFeedPicture(t *testing.T) {
	got := Select(Input{
		MediaType:     media.MediaTypeVideo,
		HasLink:       true,
		Platform:      entity.PlatformFacebookPage,
		HasLocalBytes: true,
		HasRemoteURL:  true,
	})

	assert.NotContains(t, got, entity.StrategyFeedPostWithPicture)
	assert.Equal(t, entity.StrategyDirectBinaryUpload, got[0])
}

func TestSelectUnreachableURLExcludesURLStrategies(t *testing.T) {
	got := Select(Input{
		MediaType:         media.MediaTypeImage,
		HasLink:           true,
		Platform:          entity.PlatformFacebookPage,
		HasRemoteURL:      true,
		RemoteUnreachable: true,
	})

	assert.NotContains(t, got, entity.StrategyFeedPostWithPicture)
	assert.NotContains(t, got, entity.StrategyRemoteURLMediaPost)
	// With no local bytes either, the text fallback is the terminal
	// candidate, not a skipped one.
	assert.Equal(t, []entity.StrategyID{entity.StrategyTextOnlyFallback}, got)
}

func TestSelectTextFallbackAlwaysLast(t *testing.T) {
	inputs := []Input{
		{MediaType: media.MediaTypeImage, HasLink: true, Platform: entity.PlatformFacebookPage, HasLocalBytes: true, HasRemoteURL: true},
		{MediaType: media.MediaTypeImage, Platform: entity.PlatformFacebookGroup, HasLocalBytes: true},
		{MediaType: media.MediaTypeVideo, Platform: entity.PlatformFacebookPage, HasRemoteURL: true},
		{MediaType: media.MediaTypeVideo, Platform: entity.PlatformFacebookGroup},
	}

	for _, in := range inputs {
		got := Select(in)
		require.NotEmpty(t, got)
		assert.Equal(t, entity.StrategyTextOnlyFallback, got[len(got)-1])
		for _, s := range got[:len(got)-1] {
			assert.True(t, s.IsMediaBearing(), "no media strategy may follow the text fallback")
		}
	}
}

func TestSelectInstagram(t *testing.T) {
	t.Run("local bytes first", func(t *testing.T) {
		got := Select(Input{
			MediaType:     media.MediaTypeImage,
			Platform:      entity.PlatformInstagramBusiness,
			HasLocalBytes: true,
			HasRemoteURL:  true,
		})
		assert.Equal(t, []entity.StrategyID{
			entity.StrategyDirectBinaryUpload,
			entity.StrategyRemoteURLMediaPost,
		}, got)
	})

	t.Run("no text fallback", func(t *testing.T) {
		got := Select(Input{
			MediaType: media.MediaTypeImage,
			Platform:  entity.PlatformInstagramBusiness,
		})
		assert.Empty(t, got)
	})

	t.Run("never feed picture", func(t *testing.T) {
		got := Select(Input{
			MediaType:     media.MediaTypeImage,
			HasLink:       true,
			Platform:      entity.PlatformInstagramBusiness,
			HasLocalBytes: true,
			HasRemoteURL:  true,
		})
		assert.NotContains(t, got, entity.StrategyFeedPostWithPicture)
	})
}
