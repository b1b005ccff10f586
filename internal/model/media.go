package model

import "errors"

// Profile picture constraints. Uploads are normalized server-side before
// they reach the blob store.
const (
	MaxPictureSizeBytes = int64(5 * 1024 * 1024)

	PictureWidth  = 400
	PictureHeight = 400

	PictureFolder       = "profile-pictures"
	PictureExt          = ".jpg"
	ContentTypeJPEG     = "image/jpeg"
	PictureCacheControl = "public, max-age=31536000"
)

// IsAllowedImageType reports whether the upload content type is accepted.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

// UploadResult is what the blob store returns for a stored object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

var (
	ErrFileTooLarge     = errors.New("file exceeds the maximum allowed size")
	ErrInvalidImageType = errors.New("unsupported image type")
)
