package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/normalize"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/dispatch"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
)

type stubNormalizer struct {
	err    error
	called bool
}

func (s *stubNormalizer) Normalize(_ context.Context, src *media.MediaSource) (*normalize.Normalized, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return &normalize.Normalized{Bytes: src.Bytes, Type: src.DetectedType, ContentType: "image/jpeg"}, nil
}

type stubDispatcher struct {
	gotReq     *entity.Request
	gotTargets []entity.PublishTarget
	result     *dispatch.Result
}

func (s *stubDispatcher) Dispatch(_ context.Context, req *entity.Request, explicit []entity.PublishTarget) *dispatch.Result {
	s.gotReq = req
	s.gotTargets = explicit
	if s.result != nil {
		return s.result
	}
	return &dispatch.Result{PerPlatform: map[string]entity.Outcome{
		"facebook_page:111": entity.Succeeded("post_1", entity.StrategyDirectBinaryUpload),
	}}
}

type stubRecorder struct {
	id     string
	err    error
	called bool
}

func (s *stubRecorder) RecordDispatch(context.Context, *entity.Request, *dispatch.Result) (string, error) {
	s.called = true
	return s.id, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func jpegBytes() []byte {
	data := make([]byte, 300)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return data
}

func TestPublishClassifiesAndDispatches(t *testing.T) {
	norm := &stubNormalizer{}
	disp := &stubDispatcher{}
	rec := &stubRecorder{id: "rec_1"}
	p := New(norm, disp, rec, discardLogger())

	out, err := p.Publish(context.Background(), PublishInput{
		MediaBytes: jpegBytes(),
		Filename:   "product.jpg",
		Caption:    "new arrival",
		Targets: []TargetInput{
			{Platform: "facebook_page", TargetID: "111", AccessToken: "tok"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, media.MediaTypeImage, out.Detected.Type)
	assert.True(t, norm.called)
	assert.True(t, rec.called)
	assert.Equal(t, "rec_1", out.PostRecordID)
	require.Len(t, disp.gotTargets, 1)
	assert.Equal(t, entity.PlatformFacebookPage, disp.gotTargets[0].Platform)
	assert.Equal(t, "new arrival", disp.gotReq.Caption)
	assert.Equal(t, "image/jpeg", disp.gotReq.ContentType)
}

func TestPublishUnreachableURLNarrowsStrategies(t *testing.T) {
	norm := &stubNormalizer{err: &normalize.Error{Kind: normalize.KindUnreachable, Err: errors.New("dial tcp: timeout")}}
	disp := &stubDispatcher{}
	p := New(norm, disp, nil, discardLogger())

	_, err := p.Publish(context.Background(), PublishInput{
		MediaURL: "https://cdn.example.com/gone.jpg",
		Caption:  "still worth posting",
		Targets: []TargetInput{
			{Platform: "facebook_page", TargetID: "111", AccessToken: "tok"},
		},
	})
	require.NoError(t, err)

	assert.True(t, disp.gotReq.RemoteUnreachable)
	assert.False(t, disp.gotReq.Media.HasBytes())
}

func TestPublishCorruptImageDropsBytes(t *testing.T) {
	norm := &stubNormalizer{err: &normalize.Error{Kind: normalize.KindUnrecognizedImage, Err: errors.New("image: unknown format")}}
	disp := &stubDispatcher{}
	p := New(norm, disp, nil, discardLogger())

	_, err := p.Publish(context.Background(), PublishInput{
		MediaBytes: jpegBytes(),
		Filename:   "broken.jpg",
		Caption:    "caption survives",
		Targets: []TargetInput{
			{Platform: "facebook_page", TargetID: "111", AccessToken: "tok"},
		},
	})
	require.NoError(t, err)

	assert.False(t, disp.gotReq.Media.HasBytes())
	assert.False(t, disp.gotReq.RemoteUnreachable)
}

func TestPublishRejectsEmptyRequest(t *testing.T) {
	p := New(&stubNormalizer{}, &stubDispatcher{}, nil, discardLogger())

	_, err := p.Publish(context.Background(), PublishInput{})
	assert.ErrorIs(t, err, entity.ErrEmptyCaptionAndNoMedia)
}

func TestPublishValidatesTargets(t *testing.T) {
	p := New(&stubNormalizer{}, &stubDispatcher{}, nil, discardLogger())

	_, err := p.Publish(context.Background(), PublishInput{
		Caption: "hi",
		Targets: []TargetInput{{Platform: "myspace", TargetID: "1", AccessToken: "t"}},
	})
	assert.ErrorIs(t, err, entity.ErrInvalidPlatform)

	_, err = p.Publish(context.Background(), PublishInput{
		Caption: "hi",
		Targets: []TargetInput{{Platform: "facebook_page", AccessToken: "t"}},
	})
	assert.ErrorIs(t, err, entity.ErrMissingTargetID)

	_, err = p.Publish(context.Background(), PublishInput{
		Caption: "hi",
		Targets: []TargetInput{{Platform: "facebook_page", TargetID: "1"}},
	})
	assert.ErrorIs(t, err, entity.ErrMissingToken)
}

func TestPublishRecorderFailureIsNonFatal(t *testing.T) {
	rec := &stubRecorder{err: errors.New("db down")}
	p := New(&stubNormalizer{}, &stubDispatcher{}, rec, discardLogger())

	out, err := p.Publish(context.Background(), PublishInput{
		Caption: "text only",
		Targets: []TargetInput{
			{Platform: "facebook_page", TargetID: "111", AccessToken: "tok"},
		},
	})
	require.NoError(t, err)
	assert.True(t, rec.called)
	assert.Empty(t, out.PostRecordID)
}

func TestDiagnoseClassifiesBytes(t *testing.T) {
	p := New(&stubNormalizer{}, &stubDispatcher{}, nil, discardLogger())

	out, err := p.Diagnose(context.Background(), DiagnoseInput{
		MediaBytes: jpegBytes(),
		Filename:   "photo.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, media.MediaTypeImage, out.Detected.Type)
	assert.Equal(t, 300, out.ByteCount)
}

func TestDiagnoseRequiresMedia(t *testing.T) {
	p := New(&stubNormalizer{}, &stubDispatcher{}, nil, discardLogger())

	_, err := p.Diagnose(context.Background(), DiagnoseInput{})
	assert.ErrorIs(t, err, media.ErrNoMedia)
}
