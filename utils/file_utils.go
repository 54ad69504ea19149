package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	uploadBaseDir = "uploads"
	baseURL       = "/uploads"
	maxFileSize   = 10 * 1024 * 1024

	thumbnailWidth   = 320
	thumbnailQuality = 85
)

// extensions accepted per media type
var allowedExts = map[string]map[string]bool{
	"image": {".jpg": true, ".jpeg": true, ".png": true, ".gif": true},
	"video": {".mp4": true, ".mov": true, ".webm": true},
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// cleanFilename strips directory components and unsafe characters
func cleanFilename(filename string) string {
	return unsafeFilenameChars.ReplaceAllString(filepath.Base(filename), "")
}

// ValidateFileType checks the extension against the media type's allow list
func ValidateFileType(filename, mediaType string) error {
	exts, ok := allowedExts[mediaType]
	if !ok {
		return fmt.Errorf("invalid media type. Must be 'image' or 'video'")
	}
	if !exts[strings.ToLower(filepath.Ext(filename))] {
		if mediaType == "video" {
			return fmt.Errorf("unsupported video format. Allowed formats: mp4, mov, webm")
		}
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif")
	}
	return nil
}

// InitializeStorage creates the upload directory tree under ./uploads
func InitializeStorage() error {
	for _, dir := range []string{"", "packages", "logos", "thumbnails", "profiles"} {
		if err := os.MkdirAll(filepath.Join(uploadBaseDir, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// UploadFile writes the file under uploads/ and returns its public URL.
// The filename may carry a subdirectory prefix (packages/, profiles/).
func UploadFile(fileData []byte, filename string, mediaType string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}
	if err := ValidateFileType(cleanFilename(filename), mediaType); err != nil {
		return "", err
	}
	if err := InitializeStorage(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(uploadBaseDir, filename)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return baseURL + "/" + filename, nil
}

// GenerateImageThumbnail resizes an image to a 320px wide JPEG under
// uploads/thumbnails and returns its URL
func GenerateImageThumbnail(imageData []byte, filename string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	var buf bytes.Buffer
	resized := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	relPath := filepath.Join("thumbnails", base+".jpg")
	fullPath := filepath.Join(uploadBaseDir, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %v", err)
	}
	if err := os.WriteFile(fullPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return baseURL + "/" + filepath.ToSlash(relPath), nil
}

// GenerateVideoThumbnail grabs the one-second frame of an uploaded video
// and runs it through GenerateImageThumbnail
func GenerateVideoThumbnail(videoURL string) (string, error) {
	if err := InitializeStorage(); err != nil {
		return "", err
	}

	videoPath := strings.TrimPrefix(videoURL, baseURL+"/")
	framePath := filepath.Join(os.TempDir(), "thumbnail.jpg")

	err := ffmpeg.Input(filepath.Join(uploadBaseDir, videoPath)).
		Output(framePath, ffmpeg.KwArgs{"vframes": 1, "ss": "00:00:01"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to generate thumbnail: %v", err)
	}
	defer os.Remove(framePath)

	frameData, err := os.ReadFile(framePath)
	if err != nil {
		return "", fmt.Errorf("failed to read thumbnail file: %v", err)
	}

	return GenerateImageThumbnail(frameData, filepath.Base(videoPath))
}
