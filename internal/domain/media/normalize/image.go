package normalize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	// Register decoders for the formats the platforms hand us.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 90

// normalizeImage decode-validates image bytes and applies the corrections
// the Graph endpoints need: EXIF orientation, alpha flattened onto white,
// dimensions capped at the platform ceiling. JPEG and PNG keep their format;
// everything else (notably WebP) is re-encoded to JPEG because some Graph
// endpoints reject it.
func normalizeImage(data []byte) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}

	img = applyOrientation(data, img)
	img = flattenToWhite(img)

	if b := img.Bounds(); b.Dx() > maxImageDimension || b.Dy() > maxImageDimension {
		img = imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encoding png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, "", fmt.Errorf("encoding jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}
}

// applyOrientation rotates the image according to the EXIF orientation tag.
// Only the rotation-only values 3/6/8 are handled; mirrored variants are
// rare enough in practice to leave alone. Missing or unreadable EXIF data is
// not an error.
func applyOrientation(raw []byte, img image.Image) image.Image {
	meta, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return img
	}
	tag, err := meta.Get(exif.Orientation)
	if err != nil {
		return img
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return img
	}

	switch orientation {
	case 3:
		return imaging.Rotate180(img)
	case 6:
		return imaging.Rotate270(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// flattenToWhite composites any image with transparency or an indexed
// palette onto a white RGB background.
func flattenToWhite(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	bg := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
