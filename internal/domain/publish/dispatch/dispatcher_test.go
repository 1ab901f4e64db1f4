package dispatch

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/executor"
)

// stubRunner returns canned outcomes per target id
type stubRunner struct {
	outcomes map[string]entity.Outcome
	inputs   []executor.Input
}

func (s *stubRunner) Execute(_ context.Context, in executor.Input) (entity.Outcome, *entity.PublishAttempt) {
	s.inputs = append(s.inputs, in)
	attempt := &entity.PublishAttempt{Target: in.Target, Candidates: in.Candidates}
	if outcome, ok := s.outcomes[in.Target.TargetID]; ok {
		return outcome, attempt
	}
	return entity.Succeeded("post_"+in.Target.TargetID, entity.StrategyDirectBinaryUpload), attempt
}

func testMapping(t *testing.T) *Mapping {
	t.Helper()
	m, err := NewMapping(MappingConfig{Shops: []ShopConfig{
		{
			ShopID: "main-shop",
			Targets: []TargetConfig{
				{Platform: "facebook_page", TargetID: "page1", AccessToken: "tok1"},
				{Platform: "instagram", TargetID: "ig1", AccessToken: "tok2"},
			},
		},
		{
			ShopID: "second-shop",
			Targets: []TargetConfig{
				{Platform: "facebook_group", TargetID: "group1", AccessToken: "tok3"},
			},
		},
	}})
	require.NoError(t, err)
	return m
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func imageRequest() *entity.Request {
	src := media.NewUploadedBinary(make([]byte, 512), "photo.jpg")
	src.DetectedType = media.MediaTypeImage
	return &entity.Request{
		Media:       src,
		ContentType: "image/jpeg",
		Caption:     "hello",
		ShopID:      "main-shop",
	}
}

func TestDispatchFansOutToAllShopTargets(t *testing.T) {
	runner := &stubRunner{}
	d := New(testMapping(t), runner, discardLogger())

	result := d.Dispatch(context.Background(), imageRequest(), nil)

	require.Len(t, result.PerPlatform, 2)
	assert.Contains(t, result.PerPlatform, "facebook_page:page1")
	assert.Contains(t, result.PerPlatform, "instagram:ig1")
	assert.True(t, result.AnySucceeded())
}

func TestDispatchIndependentFailureDomains(t *testing.T) {
	// Forcing one target to fail must not change the other's result.
	runner := &stubRunner{outcomes: map[string]entity.Outcome{
		"ig1": entity.Failed([]string{"direct_binary_upload: graph API error: token expired (code: 190)"}),
	}}
	d := New(testMapping(t), runner, discardLogger())

	result := d.Dispatch(context.Background(), imageRequest(), nil)

	require.Len(t, result.PerPlatform, 2)
	assert.Equal(t, entity.OutcomeSuccess, result.PerPlatform["facebook_page:page1"].Status)
	assert.Equal(t, entity.OutcomeFailed, result.PerPlatform["instagram:ig1"].Status)
	assert.True(t, result.AnySucceeded(), "partial success is a normal outcome")
}

func TestDispatchUnknownShopFallsBackToDefault(t *testing.T) {
	runner := &stubRunner{}
	d := New(testMapping(t), runner, discardLogger())

	req := imageRequest()
	req.ShopID = "no-such-shop"

	result := d.Dispatch(context.Background(), req, nil)

	// Degrades to the first configured shop's targets, never errors.
	require.Len(t, result.PerPlatform, 2)
	assert.Contains(t, result.PerPlatform, "facebook_page:page1")
}

func TestDispatchExplicitTargetsBypassMapping(t *testing.T) {
	runner := &stubRunner{}
	d := New(testMapping(t), runner, discardLogger())

	explicit := []entity.PublishTarget{
		{Platform: entity.PlatformFacebookGroup, TargetID: "groupX", AccessToken: "tokX"},
	}
	result := d.Dispatch(context.Background(), imageRequest(), explicit)

	require.Len(t, result.PerPlatform, 1)
	assert.Contains(t, result.PerPlatform, "facebook_group:groupX")
}

func TestDispatchSelectsPerPlatformCandidates(t *testing.T) {
	runner := &stubRunner{}
	d := New(testMapping(t), runner, discardLogger())

	req := imageRequest()
	req.ProductLink = "https://shop.example/x"
	req.Media.URL = "https://cdn.example.com/photo.jpg"

	d.Dispatch(context.Background(), req, nil)

	require.Len(t, runner.inputs, 2)
	for _, in := range runner.inputs {
		switch in.Target.Platform {
		case entity.PlatformFacebookPage:
			assert.Equal(t, entity.StrategyFeedPostWithPicture, in.Candidates[0])
		case entity.PlatformInstagramBusiness:
			assert.NotContains(t, in.Candidates, entity.StrategyFeedPostWithPicture)
			assert.NotContains(t, in.Candidates, entity.StrategyTextOnlyFallback)
		}
	}
}

func TestNewMappingValidation(t *testing.T) {
	t.Run("empty mapping", func(t *testing.T) {
		_, err := NewMapping(MappingConfig{})
		assert.Error(t, err)
	})

	t.Run("shop without targets", func(t *testing.T) {
		_, err := NewMapping(MappingConfig{Shops: []ShopConfig{{ShopID: "s1"}}})
		assert.Error(t, err)
	})

	t.Run("bad platform", func(t *testing.T) {
		_, err := NewMapping(MappingConfig{Shops: []ShopConfig{{
			ShopID:  "s1",
			Targets: []TargetConfig{{Platform: "myspace", TargetID: "x"}},
		}}})
		assert.ErrorIs(t, err, entity.ErrInvalidPlatform)
	})
}
