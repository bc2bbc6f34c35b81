package helpers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	ServiceFolder = "services"
)

func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile(`[a-z]`).MatchString(password)
	hasUpper := regexp.MustCompile(`[A-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`\d`).MatchString(password)
	return hasLower && hasUpper && hasNumber
}

// StringTrim normalizes an incoming id: trims spaces and surrounding quotes
// which may occur when clients pass values as JSON strings or templates.
func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

// UploadImage pushes a single image (file path, remote URL or data URI) to
// Cloudinary and returns the secure URL.
func UploadImage(ctx context.Context, cld *cloudinary.Cloudinary, image, folder string) (string, error) {
	if strings.TrimSpace(image) == "" {
		return "", fmt.Errorf("empty image reference")
	}

	uploadResult, err := cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder: folder,
		Tags:   []string{"carexyz"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %v", err)
	}

	return uploadResult.SecureURL, nil
}
