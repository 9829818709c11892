package service

import (
	"context"
	"io"
)

type FileUploadService interface {
	UploadObject(ctx context.Context, objectName, contentType string, file io.Reader) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}
