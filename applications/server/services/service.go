package services

import (
	"context"
	"fmt"
	"path"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/arch2mesh/uploader/applications/server"
	"github.com/arch2mesh/uploader/applications/server/domain"
	"github.com/arch2mesh/uploader/applications/server/interfaces"
)

// PublicPrefix is the URL path stored files are served under.
const PublicPrefix = "/uploads"

type Option func(*service)

// WithJobNamespace stores every upload under a directory named after its job ID.
func WithJobNamespace(enabled bool) Option {
	return func(s *service) {
		s.namespaceByJob = enabled
	}
}

func withJobIDGenerator(gen func() (string, error)) Option {
	return func(s *service) {
		s.newJobID = gen
	}
}

type service struct {
	storage        interfaces.Storage
	logger         log.Logger
	namespaceByJob bool
	newJobID       func() (string, error)
}

func NewService(storage interfaces.Storage, logger log.Logger, opts ...Option) server.UploadService {
	s := &service{
		storage:  storage,
		logger:   logger,
		newJobID: domain.NewJobID,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Upload stores the plan and then the elevation. A failed elevation write
// leaves the stored plan in place.
func (s *service) Upload(ctx context.Context, req domain.UploadRequest) (domain.UploadResponse, error) {
	if req.Plan.Body == nil || req.Elevation.Body == nil {
		return domain.UploadResponse{}, domain.ErrMissingPart
	}

	planName, err := domain.CleanFilename(req.Plan.Filename)
	if err != nil {
		return domain.UploadResponse{}, fmt.Errorf("plan: %w", err)
	}

	elevationName, err := domain.CleanFilename(req.Elevation.Filename)
	if err != nil {
		return domain.UploadResponse{}, fmt.Errorf("elevation: %w", err)
	}

	jobID, err := s.newJobID()
	if err != nil {
		return domain.UploadResponse{}, fmt.Errorf("can't generate job id: %w", err)
	}

	planPath := s.storedPath(jobID, planName)
	if _, err = s.storage.SaveFile(ctx, planPath, req.Plan.Body); err != nil {
		return domain.UploadResponse{}, fmt.Errorf("can't store plan: %w", err)
	}

	elevationPath := s.storedPath(jobID, elevationName)
	if _, err = s.storage.SaveFile(ctx, elevationPath, req.Elevation.Body); err != nil {
		return domain.UploadResponse{}, fmt.Errorf("can't store elevation: %w", err)
	}

	level.Info(s.logger).Log("msg", "images uploaded",
		"job_id", jobID,
		"plan", planPath,
		"elevation", elevationPath,
	)

	return domain.UploadResponse{
		Message:      domain.UploadSucceededMessage,
		JobID:        jobID,
		PlanURL:      path.Join(PublicPrefix, planPath),
		ElevationURL: path.Join(PublicPrefix, elevationPath),
	}, nil
}

func (s *service) GetFile(ctx context.Context, name string) (domain.File, error) {
	file, err := s.storage.OpenFile(ctx, name)
	if err != nil {
		return domain.File{}, fmt.Errorf("can't open stored file: %w", err)
	}

	return file, nil
}

func (s *service) storedPath(jobID, filename string) string {
	if s.namespaceByJob {
		return jobID + "/" + filename
	}

	return filename
}
