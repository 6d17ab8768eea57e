package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (5MB)
	maxFileSize = 5 * 1024 * 1024
	// Profile photos are resized down to this bound
	profilePhotoSize = 512
)

// InitializeStorage creates the directories for uploaded files
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "profiles"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// SaveProfilePhoto resizes the uploaded image and stores it under
// uploads/profiles, returning the URL it is served from.
func SaveProfilePhoto(fileData []byte, filename string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return "", fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif")
	}

	img, err := imaging.Decode(bytes.NewReader(fileData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	// Fit inside the bound, keep aspect ratio, never upscale
	resized := imaging.Fit(img, profilePhotoSize, profilePhotoSize, imaging.Lanczos)

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	name := uuid.New().String() + ".jpg"
	fullPath := filepath.Join(uploadBaseDir, "profiles", name)

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image: %v", err)
	}

	return baseURL + "/profiles/" + name, nil
}

// DeleteUploadedFile removes a previously stored file given its served URL
func DeleteUploadedFile(fileURL string) error {
	if !strings.HasPrefix(fileURL, baseURL+"/") {
		return fmt.Errorf("invalid file URL")
	}

	rel := strings.TrimPrefix(fileURL, baseURL+"/")
	// Guard against path traversal
	if strings.Contains(rel, "..") {
		return fmt.Errorf("invalid file URL")
	}

	return os.Remove(filepath.Join(uploadBaseDir, rel))
}
