package ports

import (
	"context"
	"io"
)

// Object is a blob about to be written to object storage.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectInfo is the metadata returned by a HEAD request.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// ObjectStorage is an S3-compatible bucket.
type ObjectStorage interface {
	Put(ctx context.Context, obj Object) error
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	PublicURL(key string) string
}

// IconUpload is a file received from the icon upload form.
type IconUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult locates a stored icon.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadService stores resource icons.
type UploadService interface {
	UploadIcon(ctx context.Context, in IconUpload) (*UploadResult, error)
}
