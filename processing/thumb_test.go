package processing

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodedImage(t *testing.T, width, height int, asPNG bool) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 100, 255})
		}
	}
	buf := &bytes.Buffer{}
	var err error
	if asPNG {
		err = png.Encode(buf, img)
	} else {
		err = jpeg.Encode(buf, img, nil)
	}
	if err != nil {
		t.Fatalf("cannot encode source image: %v", err)
	}
	return buf
}

func TestCreateThumbDownscale(t *testing.T) {
	src := encodedImage(t, 1600, 1200, false)
	out := &bytes.Buffer{}
	result, err := CreateThumb(src, out, "image/jpeg", 80, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.ThumbWidth != 800 || result.ThumbHeight != 600 {
		t.Errorf("wrong thumb size: %dx%d, want 800x600", result.ThumbWidth, result.ThumbHeight)
	}
	if result.Width != 1600 || result.Height != 1200 {
		t.Errorf("wrong source size: %dx%d", result.Width, result.Height)
	}
	if result.ThumbExt != ".jpg" {
		t.Errorf("wrong extension: %s", result.ThumbExt)
	}
	if result.ThumbSize != int64(out.Len()) || out.Len() == 0 {
		t.Errorf("wrong byte count: %d vs %d written", result.ThumbSize, out.Len())
	}
	thumb, err := jpeg.Decode(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("thumb does not decode: %v", err)
	}
	if size := thumb.Bounds().Size(); size.X != 800 || size.Y != 600 {
		t.Errorf("decoded thumb is %dx%d", size.X, size.Y)
	}
}

func TestCreateThumbPortraitBound(t *testing.T) {
	src := encodedImage(t, 600, 2400, false)
	out := &bytes.Buffer{}
	result, err := CreateThumb(src, out, "image/jpeg", 80, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Height is the long side; it gets bounded, width follows the ratio
	if result.ThumbHeight != 800 || result.ThumbWidth != 200 {
		t.Errorf("wrong thumb size: %dx%d, want 200x800", result.ThumbWidth, result.ThumbHeight)
	}
}

func TestCreateThumbNoUpscale(t *testing.T) {
	src := encodedImage(t, 400, 300, false)
	out := &bytes.Buffer{}
	result, err := CreateThumb(src, out, "image/jpeg", 80, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.ThumbWidth != 400 || result.ThumbHeight != 300 {
		t.Errorf("small source should keep its size, got %dx%d", result.ThumbWidth, result.ThumbHeight)
	}
}

func TestCreateThumbOrientationSwapsDimensions(t *testing.T) {
	// Orientation 6 is a 90-degree rotation, so the recorded source
	// dimensions must come out swapped
	src := encodedImage(t, 1600, 1200, false)
	out := &bytes.Buffer{}
	result, err := CreateThumb(src, out, "image/jpeg", 80, 6)
	if err != nil {
		t.Fatal(err)
	}
	if result.Width != 1200 || result.Height != 1600 {
		t.Errorf("wrong oriented source size: %dx%d, want 1200x1600", result.Width, result.Height)
	}
	if result.ThumbWidth != 600 || result.ThumbHeight != 800 {
		t.Errorf("wrong oriented thumb size: %dx%d, want 600x800", result.ThumbWidth, result.ThumbHeight)
	}
}

func TestCreateThumbPNGStaysPNG(t *testing.T) {
	src := encodedImage(t, 1000, 1000, true)
	out := &bytes.Buffer{}
	result, err := CreateThumb(src, out, "image/png", 80, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.ThumbExt != ".png" {
		t.Errorf("wrong extension: %s, want .png", result.ThumbExt)
	}
	if _, err = png.Decode(bytes.NewReader(out.Bytes())); err != nil {
		t.Errorf("thumb does not decode as PNG: %v", err)
	}
}

func TestCreateThumbBadData(t *testing.T) {
	out := &bytes.Buffer{}
	if _, err := CreateThumb(bytes.NewReader([]byte("not an image")), out, "image/jpeg", 80, 1); err == nil {
		t.Error("expected decode error")
	}
}

func Test_thumbFilename(t *testing.T) {
	tests := []struct {
		stored string
		ext    string
		want   string
	}{
		{"4a5b.jpg", ".jpg", "4a5b.jpg"},
		{"4a5b.tiff", ".jpg", "4a5b.jpg"},
		{"4a5b.webp", ".jpg", "4a5b.jpg"},
		{"4a5b.png", ".png", "4a5b.png"},
		{"4a5b", ".jpg", "4a5b.jpg"},
	}
	for _, test := range tests {
		if got := thumbFilename(test.stored, test.ext); got != test.want {
			t.Errorf("thumbFilename(%q, %q) = %q, want %q", test.stored, test.ext, got, test.want)
		}
	}
}
