package http

import (
	"net/http"

	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/arch2mesh/uploader/applications/server"
	"github.com/arch2mesh/uploader/applications/server/config"
)

const serviceName = "arch2mesh-uploader"

type RouterOptions struct {
	MaxUploadSize int64
	Version       string
	Storage       string
}

// NewRouter wires the upload API, the static file route and health checks.
// Every origin, method and header is allowed cross-origin.
func NewRouter(svc server.UploadService, opts RouterOptions, logger log.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(accessLog(logger))

	r.HandleFunc("/api/upload", UploadHandler(svc, opts.MaxUploadSize, logger)).Methods(http.MethodPost)
	r.HandleFunc("/uploads/{filename:.+}", GetFileHandler(svc, logger)).Methods(http.MethodGet, http.MethodHead)
	NewHealthHandler(serviceName, opts.Version, opts.Storage, logger).RegisterRoutes(r)

	return cors.AllowAll().Handler(r)
}

func NewHTTPServer(conf config.Api, opts RouterOptions, uploadService server.UploadService, logger log.Logger) *http.Server {
	handler := NewRouter(uploadService, opts, logger)
	return &http.Server{
		Addr:    conf.HTTPAddr,
		Handler: handler,
	}
}
