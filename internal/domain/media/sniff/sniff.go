// Package sniff classifies raw media payloads as image or video.
//
// Detection runs as a sequence of passes, each short-circuiting on a
// confident match: filename extension, magic-byte signatures, a weighted
// content scan, and finally size-based breakpoints. The weights and
// thresholds are empirical tuning against real platform behavior, not
// derived from a formal model; treat them as configuration constants.
package sniff

import (
	"bytes"
	"strings"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/domain/media/entity"
)

// Classification is the result of one classify call. Confidence and Method
// are informational; only Type feeds downstream control flow.
type Classification struct {
	Type       entity.MediaType
	Confidence int
	Method     string
}

// Extension confidence tables. mp4/jpg/jpeg/png carry the top weights
// because they are the platforms' preferred formats.
var videoExtensions = map[string]int{
	"mp4":  95,
	"mov":  90,
	"m4v":  85,
	"webm": 80,
	"avi":  75,
	"mkv":  70,
	"flv":  60,
	"wmv":  55,
	"3gp":  45,
}

var imageExtensions = map[string]int{
	"jpg":  95,
	"jpeg": 95,
	"png":  95,
	"webp": 85,
	"gif":  80,
	"bmp":  70,
	"tiff": 60,
	"svg":  40,
	"ico":  25,
}

const (
	// Buffers shorter than this are too small for the heuristic scan to
	// say anything meaningful.
	heuristicMinSize = 200
	heuristicWindow  = 8 * 1024

	// Score thresholds for the heuristic pass. Empirical tie-breaks.
	videoScoreThreshold = 25
	imageScoreThreshold = 15

	// Size breakpoints for the last-resort guess. Images above a few MB
	// are rare on these platforms.
	sizeHuge   = 50 << 20
	sizeLarge  = 15 << 20
	sizeMedium = 5 << 20

	magicWindow     = 64
	mp4AtomWindow   = 1024
	mp4BaseConf     = 85
	mp4BoostedConf  = 99
	fallbackConf    = 40
	sizeHugeConf    = 80
	sizeLargeConf   = 70
	sizeMediumConf  = 60
	sizeDefaultConf = 70
)

// Classify inspects raw bytes plus an optional filename hint and decides
// whether the payload is an image or a video. It never fails: when nothing
// matches, the result is biased toward video, because a missed MP4 routed to
// the photo endpoint is a hard failure while a missed image still has a
// workable fallback path.
func Classify(data []byte, filenameHint string) Classification {
	if c, ok := classifyByExtension(filenameHint); ok {
		return c
	}
	if c, ok := classifyByMagicBytes(data); ok {
		return c
	}
	if c, ok := classifyByHeuristics(data); ok {
		return c
	}
	if c, ok := classifyBySize(len(data)); ok {
		return c
	}
	return Classification{Type: entity.MediaTypeVideo, Confidence: fallbackConf, Method: "fallback"}
}

// classifyByExtension matches the trailing extension of the filename hint
// against the fixed tables. Query strings and fragments are stripped first so
// URLs work as hints.
func classifyByExtension(hint string) (Classification, bool) {
	if hint == "" {
		return Classification{}, false
	}

	if i := strings.IndexAny(hint, "?#"); i >= 0 {
		hint = hint[:i]
	}
	dot := strings.LastIndex(hint, ".")
	if dot < 0 || dot == len(hint)-1 {
		return Classification{}, false
	}
	ext := strings.ToLower(hint[dot+1:])

	if conf, ok := videoExtensions[ext]; ok {
		return Classification{Type: entity.MediaTypeVideo, Confidence: conf, Method: "extension_match"}, true
	}
	if conf, ok := imageExtensions[ext]; ok {
		return Classification{Type: entity.MediaTypeImage, Confidence: conf, Method: "extension_match"}, true
	}
	return Classification{}, false
}

type signature struct {
	offset  int
	pattern []byte
	typ     entity.MediaType
	conf    int
	method  string
}

var signatures = []signature{
	// Images first: their framing is strict, so a match is near certain.
	{0, []byte{0xFF, 0xD8, 0xFF, 0xE0}, entity.MediaTypeImage, 99, "magic_bytes_jpeg_jfif"},
	{0, []byte{0xFF, 0xD8, 0xFF, 0xE1}, entity.MediaTypeImage, 99, "magic_bytes_jpeg_exif"},
	{0, []byte{0xFF, 0xD8, 0xFF}, entity.MediaTypeImage, 95, "magic_bytes_jpeg"},
	{0, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, entity.MediaTypeImage, 99, "magic_bytes_png"},
	{0, []byte("GIF87a"), entity.MediaTypeImage, 99, "magic_bytes_gif"},
	{0, []byte("GIF89a"), entity.MediaTypeImage, 99, "magic_bytes_gif"},
	{0, []byte("BM"), entity.MediaTypeImage, 90, "magic_bytes_bmp"},
	{0, []byte{'I', 'I', 0x2A, 0x00}, entity.MediaTypeImage, 95, "magic_bytes_tiff"},
	{0, []byte{'M', 'M', 0x00, 0x2A}, entity.MediaTypeImage, 95, "magic_bytes_tiff"},

	// MP4 family: the ftyp box sits at offset 4 and carries the sub-brand.
	{4, []byte("ftypmp4"), entity.MediaTypeVideo, mp4BaseConf, "magic_bytes_mp4"},
	{4, []byte("ftypisom"), entity.MediaTypeVideo, mp4BaseConf, "magic_bytes_mp4"},
	{4, []byte("ftypM4V"), entity.MediaTypeVideo, mp4BaseConf, "magic_bytes_mp4"},
	{4, []byte("ftypM4A"), entity.MediaTypeVideo, mp4BaseConf, "magic_bytes_mp4"},
	{4, []byte("ftypqt"), entity.MediaTypeVideo, mp4BaseConf, "magic_bytes_mov"},
	{4, []byte("ftyp"), entity.MediaTypeVideo, mp4BaseConf, "magic_bytes_mp4"},
	{4, []byte("moov"), entity.MediaTypeVideo, 90, "magic_bytes_mov"},

	// EBML header covers both WebM and Matroska.
	{0, []byte{0x1A, 0x45, 0xDF, 0xA3}, entity.MediaTypeVideo, 95, "magic_bytes_ebml"},
	{0, []byte("FLV"), entity.MediaTypeVideo, 95, "magic_bytes_flv"},
	{0, []byte{0x30, 0x26, 0xB2, 0x75}, entity.MediaTypeVideo, 95, "magic_bytes_asf"},
	{0, []byte{0x00, 0x00, 0x01, 0xBA}, entity.MediaTypeVideo, 90, "magic_bytes_mpeg_ps"},
	{0, []byte{0x00, 0x00, 0x01, 0xB3}, entity.MediaTypeVideo, 90, "magic_bytes_mpeg_es"},
}

// classifyByMagicBytes scans the leading bytes for known container
// signatures. RIFF needs the sub-chunk at offset 8 to tell WebP (image)
// apart from AVI (video). A shallow MP4 match only raises confidence to 99
// when moov/mdat atoms show up in the first 1KB; MP4 framing is loose enough
// that the signature alone overstates certainty.
func classifyByMagicBytes(data []byte) (Classification, bool) {
	if len(data) < 2 {
		return Classification{}, false
	}

	window := data
	if len(window) > magicWindow {
		window = window[:magicWindow]
	}

	if bytes.HasPrefix(window, []byte("RIFF")) && len(data) >= 12 {
		switch {
		case bytes.Equal(data[8:12], []byte("WEBP")):
			return Classification{Type: entity.MediaTypeImage, Confidence: 99, Method: "magic_bytes_webp"}, true
		case bytes.Equal(data[8:12], []byte("AVI ")):
			return Classification{Type: entity.MediaTypeVideo, Confidence: 95, Method: "magic_bytes_avi"}, true
		}
	}

	for _, sig := range signatures {
		if sig.offset+len(sig.pattern) > len(window) {
			continue
		}
		if !bytes.Equal(window[sig.offset:sig.offset+len(sig.pattern)], sig.pattern) {
			continue
		}

		conf := sig.conf
		method := sig.method
		if method == "magic_bytes_mp4" && conf == mp4BaseConf {
			atomWindow := data
			if len(atomWindow) > mp4AtomWindow {
				atomWindow = atomWindow[:mp4AtomWindow]
			}
			if bytes.Contains(atomWindow, []byte("moov")) || bytes.Contains(atomWindow, []byte("mdat")) {
				conf = mp4BoostedConf
				method = "magic_bytes_mp4_atoms"
			}
		}
		return Classification{Type: sig.typ, Confidence: conf, Method: method}, true
	}

	return Classification{}, false
}

// Weighted byte patterns for the heuristic content scan.
var videoPatterns = map[string]int{
	"ftyp": 15,
	"moov": 15,
	"mdat": 15,
	"mvhd": 10,
	"trak": 10,
	"avc1": 10,
	"hvc1": 10,
	"mp4v": 10,
}

var imagePatterns = map[string]int{
	"IHDR": 10,
	"IDAT": 10,
	"IEND": 10,
	"JFIF": 10,
	"Exif": 5,
}

// classifyByHeuristics scores container-specific patterns over the first
// 8KB. Only runs when the buffer is big enough to carry real structure.
func classifyByHeuristics(data []byte) (Classification, bool) {
	if len(data) < heuristicMinSize {
		return Classification{}, false
	}

	window := data
	if len(window) > heuristicWindow {
		window = window[:heuristicWindow]
	}

	videoScore := 0
	for pattern, weight := range videoPatterns {
		if bytes.Contains(window, []byte(pattern)) {
			videoScore += weight
		}
	}
	imageScore := 0
	for pattern, weight := range imagePatterns {
		if bytes.Contains(window, []byte(pattern)) {
			imageScore += weight
		}
	}

	if videoScore > imageScore && videoScore >= videoScoreThreshold {
		conf := 50 + videoScore
		if conf > 95 {
			conf = 95
		}
		return Classification{Type: entity.MediaTypeVideo, Confidence: conf, Method: "heuristic_pattern_score"}, true
	}
	if imageScore >= imageScoreThreshold {
		conf := 50 + imageScore
		if conf > 95 {
			conf = 95
		}
		return Classification{Type: entity.MediaTypeImage, Confidence: conf, Method: "heuristic_pattern_score"}, true
	}

	return Classification{}, false
}

// classifyBySize guesses from raw byte size when nothing content-based
// matched.
func classifyBySize(size int) (Classification, bool) {
	switch {
	case size > sizeHuge:
		return Classification{Type: entity.MediaTypeVideo, Confidence: sizeHugeConf, Method: "size_based_guess"}, true
	case size > sizeLarge:
		return Classification{Type: entity.MediaTypeVideo, Confidence: sizeLargeConf, Method: "size_based_guess"}, true
	case size > sizeMedium:
		return Classification{Type: entity.MediaTypeVideo, Confidence: sizeMediumConf, Method: "size_based_guess"}, true
	case size > 0:
		return Classification{Type: entity.MediaTypeImage, Confidence: sizeDefaultConf, Method: "size_based_guess"}, true
	default:
		return Classification{}, false
	}
}

// Apply runs Classify and records the result on the source
func Apply(src *entity.MediaSource) Classification {
	c := Classify(src.Bytes, src.FilenameHint())
	src.DetectedType = c.Type
	src.Confidence = c.Confidence
	src.DetectionMethod = c.Method
	return c
}
