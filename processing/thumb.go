package processing

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// ThumbMaxSize bounds the longer dimension of a derivative
	ThumbMaxSize = 800

	// NearLosslessQuality is forced when an album has compression disabled
	NearLosslessQuality = 95
)

// ThumbResult describes the derivative written by CreateThumb, plus the
// resolved (display-oriented) dimensions of the source.
type ThumbResult struct {
	ThumbSize   int64
	ThumbWidth  uint16
	ThumbHeight uint16
	Width       uint16 // source, after orientation
	Height      uint16
	ThumbExt    string // ".jpg" or ".png"
}

// CreateThumb decodes the source, applies the EXIF orientation, then
// produces a derivative no larger than ThumbMaxSize on either side while
// preserving aspect ratio and never upscaling. PNG sources are
// recompressed losslessly; everything else is encoded as JPEG at the
// given quality (there is no WebP/TIFF encoder here, and thumbs for those
// families are JPEG anyway).
func CreateThumb(reader io.Reader, writer io.Writer, mimeType string, quality, orientation int) (result ThumbResult, err error) {
	img, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	img = applyOrientation(img, orientation)

	srcRect := img.Bounds().Size()
	result.Width = uint16(srcRect.X)
	result.Height = uint16(srcRect.Y)

	thumb := resize.Thumbnail(ThumbMaxSize, ThumbMaxSize, img, resize.Lanczos3)
	thumbRect := thumb.Bounds().Size()
	result.ThumbWidth = uint16(thumbRect.X)
	result.ThumbHeight = uint16(thumbRect.Y)

	counted := &countingWriter{writer: writer}
	if mimeType == "image/png" {
		result.ThumbExt = ".png"
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(counted, thumb)
	} else {
		result.ThumbExt = ".jpg"
		err = jpeg.Encode(counted, thumb, &jpeg.Options{Quality: quality})
	}
	result.ThumbSize = counted.written
	return result, err
}

// applyOrientation normalizes the pixels for EXIF orientation values 2-8.
// Unknown or missing values pass the image through unchanged.
func applyOrientation(img image.Image, orientation int) image.Image {
	var filter gift.Filter
	switch orientation {
	case 2:
		filter = gift.FlipHorizontal()
	case 3:
		filter = gift.Rotate180()
	case 4:
		filter = gift.FlipVertical()
	case 5:
		filter = gift.Transpose()
	case 6:
		filter = gift.Rotate270() // 90 clockwise
	case 7:
		filter = gift.Transverse()
	case 8:
		filter = gift.Rotate90() // 90 counter-clockwise
	default:
		return img
	}
	g := gift.New(filter)
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

type countingWriter struct {
	writer  io.Writer
	written int64
}

func (w *countingWriter) Write(b []byte) (int, error) {
	n, err := w.writer.Write(b)
	w.written += int64(n)
	return n, err
}
