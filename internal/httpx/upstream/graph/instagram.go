package graph

import (
	"context"
	"net/url"
)

// ContainerStatus represents the processing state of an Instagram media
// container
type ContainerStatus string

const (
	ContainerStatusExpired    ContainerStatus = "EXPIRED"
	ContainerStatusError      ContainerStatus = "ERROR"
	ContainerStatusFinished   ContainerStatus = "FINISHED"
	ContainerStatusInProgress ContainerStatus = "IN_PROGRESS"
	ContainerStatusPublished  ContainerStatus = "PUBLISHED"
)

// CreateContainerInput stages media for Instagram publishing. Instagram
// ingestion is URL-only: exactly one of ImageURL/VideoURL must be set.
type CreateContainerInput struct {
	UserID      string
	AccessToken string
	ImageURL    string
	VideoURL    string
	Caption     string
}

// CreateContainerOutput is the staged container id
type CreateContainerOutput struct {
	ID string `json:"id"`
}

// CreateContainer creates a media container, step one of the two-phase
// Instagram publish.
// POST /{ig-user-id}/media
func (c *Client) CreateContainer(ctx context.Context, in CreateContainerInput) (*CreateContainerOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	if in.ImageURL != "" {
		params.Set("image_url", in.ImageURL)
	}
	if in.VideoURL != "" {
		params.Set("video_url", in.VideoURL)
		params.Set("media_type", "REELS")
	}
	if in.Caption != "" {
		params.Set("caption", in.Caption)
	}

	var out CreateContainerOutput
	if err := c.postForm(ctx, c.endpoint(in.UserID, "media"), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetContainerStatusInput checks container processing
type GetContainerStatusInput struct {
	ContainerID string
	AccessToken string
}

// GetContainerStatusOutput is the container processing state
type GetContainerStatusOutput struct {
	ID           string          `json:"id"`
	Status       ContainerStatus `json:"status_code"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// GetContainerStatus checks whether a container finished processing. Video
// containers process asynchronously and are not publishable until FINISHED.
// GET /{container-id}?fields=status_code,error_message
func (c *Client) GetContainerStatus(ctx context.Context, in GetContainerStatusInput) (*GetContainerStatusOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	params.Set("fields", "status_code,error_message")

	var out GetContainerStatusOutput
	if err := c.get(ctx, c.endpoint(in.ContainerID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublishContainerInput publishes a staged container
type PublishContainerInput struct {
	UserID      string
	AccessToken string
	ContainerID string
}

// PublishContainerOutput is the resulting Instagram media id
type PublishContainerOutput struct {
	ID string `json:"id"`
}

// PublishContainer publishes a container, step two of the two-phase
// Instagram publish.
// POST /{ig-user-id}/media_publish?creation_id=...
func (c *Client) PublishContainer(ctx context.Context, in PublishContainerInput) (*PublishContainerOutput, error) {
	params := url.Values{}
	params.Set("access_token", in.AccessToken)
	params.Set("creation_id", in.ContainerID)

	var out PublishContainerOutput
	if err := c.postForm(ctx, c.endpoint(in.UserID, "media_publish"), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
