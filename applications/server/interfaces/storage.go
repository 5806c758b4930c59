package interfaces

import (
	"context"
	"io"

	"github.com/arch2mesh/uploader/applications/server/domain"
)

// Storage keeps uploaded files under slash separated names relative to its root.
// Saving an existing name overwrites it.
type Storage interface {
	SaveFile(ctx context.Context, name string, body io.Reader) (int64, error)
	OpenFile(ctx context.Context, name string) (domain.File, error)
	Describe() string
}
