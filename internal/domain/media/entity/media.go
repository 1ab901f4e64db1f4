package entity

// MediaType represents the detected kind of an inbound media payload
type MediaType string

const (
	MediaTypeImage   MediaType = "image"
	MediaTypeVideo   MediaType = "video"
	MediaTypeUnknown MediaType = "unknown"
)

// Origin identifies how a media source arrived
type Origin string

const (
	OriginUploadedBinary Origin = "uploaded_binary"
	OriginRemoteURL      Origin = "remote_url"
)

// MediaSource represents one inbound piece of media before publishing.
// It is constructed per request and discarded after the publish attempt
// completes; nothing here is persisted.
type MediaSource struct {
	Origin   Origin
	Bytes    []byte // set for uploaded binaries, and after a successful download
	Filename string // optional hint for uploaded binaries
	URL      string // set for remote origins

	DetectedType    MediaType
	Confidence      int    // 0-100, advisory only
	DetectionMethod string // logging/debugging tag, never drives control flow
}

// NewUploadedBinary builds a source from raw uploaded bytes
func NewUploadedBinary(data []byte, filename string) *MediaSource {
	return &MediaSource{
		Origin:   OriginUploadedBinary,
		Bytes:    data,
		Filename: filename,
	}
}

// NewRemoteURL builds a source from a remote URL
func NewRemoteURL(url string) *MediaSource {
	return &MediaSource{
		Origin: OriginRemoteURL,
		URL:    url,
	}
}

// HasBytes reports whether local bytes are available
func (m *MediaSource) HasBytes() bool {
	return len(m.Bytes) > 0
}

// FilenameHint returns the best available filename hint: the uploaded
// filename if present, otherwise the URL (the sniffer strips query strings
// itself).
func (m *MediaSource) FilenameHint() string {
	if m.Filename != "" {
		return m.Filename
	}
	return m.URL
}
