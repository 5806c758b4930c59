package server

import (
	"context"

	"github.com/arch2mesh/uploader/applications/server/domain"
)

type UploadService interface {
	Upload(ctx context.Context, req domain.UploadRequest) (domain.UploadResponse, error)
	GetFile(ctx context.Context, name string) (domain.File, error)
}
