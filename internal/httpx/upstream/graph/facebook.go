package graph

import (
	"context"
	"net/url"
)

// PostOutput is the success shape shared by the creation endpoints
type PostOutput struct {
	ID     string `json:"id"`
	PostID string `json:"post_id,omitempty"`
}

// ResultID returns the canonical post id: the photos endpoint reports the
// feed post id separately from the photo object id.
func (o *PostOutput) ResultID() string {
	if o.PostID != "" {
		return o.PostID
	}
	return o.ID
}

// PublishPhotoURLInput posts a photo the platform fetches itself
type PublishPhotoURLInput struct {
	TargetID    string
	AccessToken string
	ImageURL    string
	Caption     string
}

// PublishPhotoURL creates a photo post from a remote URL.
// POST /{target-id}/photos?url=...
func (c *Client) PublishPhotoURL(ctx context.Context, in PublishPhotoURLInput) (*PostOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	params.Set("url", in.ImageURL)
	if in.Caption != "" {
		params.Set("message", in.Caption)
	}

	var out PostOutput
	if err := c.postForm(ctx, c.endpoint(in.TargetID, "photos"), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishPhotoBinaryInput posts raw photo bytes directly
type PublishPhotoBinaryInput struct {
	TargetID    string
	AccessToken string
	Data        []byte
	Filename    string
	Caption     string
}

// PublishPhotoBinary uploads photo bytes as multipart form data. Immune to
// the platform's ability (or inability) to fetch a remote URL.
// POST /{target-id}/photos with a "source" file part
func (c *Client) PublishPhotoBinary(ctx context.Context, in PublishPhotoBinaryInput) (*PostOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	if in.Caption != "" {
		params.Set("message", in.Caption)
	}

	filename := in.Filename
	if filename == "" {
		filename = "photo.jpg"
	}

	var out PostOutput
	if err := c.postMultipart(ctx, c.endpoint(in.TargetID, "photos"), params, filename, in.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishVideoURLInput posts a video the platform fetches itself
type PublishVideoURLInput struct {
	TargetID    string
	AccessToken string
	VideoURL    string
	Description string
}

// PublishVideoURL creates a video post from a remote URL.
// POST /{target-id}/videos?file_url=...
func (c *Client) PublishVideoURL(ctx context.Context, in PublishVideoURLInput) (*PostOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	params.Set("file_url", in.VideoURL)
	if in.Description != "" {
		params.Set("description", in.Description)
	}

	var out PostOutput
	if err := c.postForm(ctx, c.endpoint(in.TargetID, "videos"), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishVideoBinaryInput posts raw video bytes directly
type PublishVideoBinaryInput struct {
	TargetID    string
	AccessToken string
	Data        []byte
	Filename    string
	Description string
}

// PublishVideoBinary uploads video bytes as multipart form data.
// POST /{target-id}/videos with a "source" file part
func (c *Client) PublishVideoBinary(ctx context.Context, in PublishVideoBinaryInput) (*PostOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	if in.Description != "" {
		params.Set("description", in.Description)
	}

	filename := in.Filename
	if filename == "" {
		filename = "video.mp4"
	}

	var out PostOutput
	if err := c.postMultipart(ctx, c.endpoint(in.TargetID, "videos"), params, filename, in.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishFeedInput creates a feed post. When Picture is set alongside Link,
// the result renders as a clickable image that deep-links to Link, which the
// plain photo endpoints cannot produce.
type PublishFeedInput struct {
	TargetID    string
	AccessToken string
	Message     string
	Link        string
	Picture     string
}

// PublishFeed creates a feed post.
// POST /{target-id}/feed
func (c *Client) PublishFeed(ctx context.Context, in PublishFeedInput) (*PostOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	if in.Message != "" {
		params.Set("message", in.Message)
	}
	if in.Link != "" {
		params.Set("link", in.Link)
	}
	if in.Picture != "" {
		params.Set("picture", in.Picture)
	}

	var out PostOutput
	if err := c.postForm(ctx, c.endpoint(in.TargetID, "feed"), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCommentInput adds a comment under an existing post
type CreateCommentInput struct {
	PostID      string
	AccessToken string
	Message     string
}

// CreateCommentOutput is the created comment id
type CreateCommentOutput struct {
	ID string `json:"id"`
}

// CreateComment posts a comment under a post or Instagram media object.
// POST /{post-id}/comments
func (c *Client) CreateComment(ctx context.Context, in CreateCommentInput) (*CreateCommentOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	params.Set("message", in.Message)

	var out CreateCommentOutput
	if err := c.postForm(ctx, c.endpoint(in.PostID, "comments"), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
