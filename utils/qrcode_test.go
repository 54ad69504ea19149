package utils

import (
	"bytes"
	"image/png"
	"testing"
)

func TestGenerateQRCodePNG(t *testing.T) {
	data, err := GenerateQRCodePNG("alhijra_booking_64f0c2a1", 256)
	if err != nil {
		t.Fatalf("GenerateQRCodePNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 256 || bounds.Dy() != 256 {
		t.Errorf("size = %dx%d, want 256x256", bounds.Dx(), bounds.Dy())
	}
}

func TestGenerateQRCodePNGDefaultSize(t *testing.T) {
	data, err := GenerateQRCodePNG("ref", 0)
	if err != nil {
		t.Fatalf("GenerateQRCodePNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a valid PNG: %v", err)
	}
	if img.Bounds().Dx() != 200 {
		t.Errorf("default size = %d, want 200", img.Bounds().Dx())
	}
}
