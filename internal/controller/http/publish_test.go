package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	media "github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/sniff"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/entity"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/publish/policy"
)

type stubPolicy struct {
	in  policy.PublishInput
	out *policy.PublishOutput
	err error
}

func (s *stubPolicy) Publish(_ context.Context, in policy.PublishInput) (*policy.PublishOutput, error) {
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	return s.out, nil
}

func newRouter(p PublishPolicy) *chi.Mux {
	r := chi.NewRouter()
	NewPublishHandler(p).RegisterRoutes(r)
	return r
}

func successOutput() *policy.PublishOutput {
	return &policy.PublishOutput{
		PostRecordID: "rec_1",
		Detected:     sniff.Classification{Type: media.MediaTypeImage, Confidence: 95, Method: "extension_match"},
		PerPlatform: map[string]entity.Outcome{
			"facebook_page:111": entity.Succeeded("post_1", entity.StrategyDirectBinaryUpload),
		},
	}
}

func TestPublishJSONFullSuccess(t *testing.T) {
	stub := &stubPolicy{out: successOutput()}
	router := newRouter(stub)

	body, _ := json.Marshal(PublishRequest{
		Caption:  "hello",
		MediaURL: "https://cdn.example.com/p.jpg",
		ShopID:   "shop_1",
		Targets:  []TargetRequest{{Platform: "facebook_page", TargetID: "111", AccessToken: "tok"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/webhook/publish", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp PublishResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "rec_1", resp.PostRecordID)
	assert.Equal(t, "image", resp.Detected.Type)
	assert.Equal(t, "post_1", resp.Results["facebook_page:111"].PostID)

	assert.Equal(t, "hello", stub.in.Caption)
	assert.Equal(t, "shop_1", stub.in.ShopID)
	require.Len(t, stub.in.Targets, 1)
	assert.Equal(t, "111", stub.in.Targets[0].TargetID)
}

func TestPublishPartialSuccessIsMultiStatus(t *testing.T) {
	stub := &stubPolicy{out: &policy.PublishOutput{
		Detected: sniff.Classification{Type: media.MediaTypeImage},
		PerPlatform: map[string]entity.Outcome{
			"facebook_page:111": entity.Succeeded("post_1", entity.StrategyRemoteURLMediaPost),
			"instagram:222":     entity.Failed([]string{"container stuck"}),
		},
	}}
	router := newRouter(stub)

	body, _ := json.Marshal(PublishRequest{Caption: "hi", MediaURL: "https://x.example/p.jpg"})
	req := httptest.NewRequest(http.MethodPost, "/webhook/publish", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMultiStatus, rec.Code)
}

func TestPublishAllFailedIsUnprocessableWithBreakdown(t *testing.T) {
	stub := &stubPolicy{out: &policy.PublishOutput{
		Detected: sniff.Classification{Type: media.MediaTypeImage},
		PerPlatform: map[string]entity.Outcome{
			"facebook_page:111": entity.Failed([]string{"feed: token expired (code 190)"}),
			"instagram:222":     entity.Failed([]string{"container stuck in ERROR"}),
		},
	}}
	router := newRouter(stub)

	body, _ := json.Marshal(PublishRequest{Caption: "hi", MediaURL: "https://x.example/p.jpg"})
	req := httptest.NewRequest(http.MethodPost, "/webhook/publish", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Failed publishes still carry the full per-platform breakdown; the
	// per-strategy reasons are the caller's only diagnostics.
	var resp PublishResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Results, 2)
	page := resp.Results["facebook_page:111"]
	assert.Equal(t, entity.OutcomeFailed, page.Status)
	assert.Equal(t, []string{"feed: token expired (code 190)"}, page.FailureReasons)
	ig := resp.Results["instagram:222"]
	assert.Equal(t, []string{"container stuck in ERROR"}, ig.FailureReasons)
}

func TestPublishInvalidJSON(t *testing.T) {
	router := newRouter(&stubPolicy{out: successOutput()})

	req := httptest.NewRequest(http.MethodPost, "/webhook/publish", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishValidationErrorIsBadRequest(t *testing.T) {
	stub := &stubPolicy{err: entity.ErrEmptyCaptionAndNoMedia}
	router := newRouter(stub)

	body, _ := json.Marshal(PublishRequest{})
	req := httptest.NewRequest(http.MethodPost, "/webhook/publish", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublishMultipartCarriesFileAndFields(t *testing.T) {
	stub := &stubPolicy{out: successOutput()}
	router := newRouter(stub)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("media", "product.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10})
	require.NoError(t, err)
	require.NoError(t, w.WriteField("caption", "from the shop"))
	require.NoError(t, w.WriteField("shop_id", "shop_9"))
	require.NoError(t, w.WriteField("targets", `[{"platform":"facebook_page","target_id":"111","access_token":"tok"}]`))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/webhook/publish", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "product.jpg", stub.in.Filename)
	assert.Len(t, stub.in.MediaBytes, 6)
	assert.Equal(t, "from the shop", stub.in.Caption)
	assert.Equal(t, "shop_9", stub.in.ShopID)
	require.Len(t, stub.in.Targets, 1)
	assert.Equal(t, "facebook_page", stub.in.Targets[0].Platform)
}
