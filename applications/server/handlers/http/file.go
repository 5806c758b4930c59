package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"

	"github.com/arch2mesh/uploader/applications/server"
	"github.com/arch2mesh/uploader/applications/server/domain"
)

const (
	planField      = "plan"
	elevationField = "elevation"

	// multipartMemory is the part of a multipart body kept in memory; the rest spills to temp files.
	multipartMemory = 32 << 20
)

type errorResponse struct {
	Error string `json:"error"`
}

func UploadHandler(svc server.UploadService, maxUploadSize int64, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(logger, "request_id", RequestIDFromContext(r.Context()))

		if maxUploadSize > 0 {
			if r.ContentLength > maxUploadSize {
				writeErr(w, domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		}

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			level.Error(logger).Log("msg", "ParseMultipartForm error",
				"err", err,
			)

			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeErr(w, domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			writeErr(w, fmt.Errorf("invalid multipart form: %w", err), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		plan, planHeader, err := r.FormFile(planField)
		if err != nil {
			writeFormFileErr(w, planField, err, logger)
			return
		}
		defer plan.Close()

		elevation, elevationHeader, err := r.FormFile(elevationField)
		if err != nil {
			writeFormFileErr(w, elevationField, err, logger)
			return
		}
		defer elevation.Close()

		resp, err := svc.Upload(r.Context(), domain.UploadRequest{
			Plan:      domain.Part{Filename: planHeader.Filename, Body: plan},
			Elevation: domain.Part{Filename: elevationHeader.Filename, Body: elevation},
		})
		if err != nil {
			level.Error(logger).Log("msg", "Upload error",
				"err", err,
			)
			writeErr(w, err, statusFor(err))
			return
		}

		writeJSON(w, http.StatusOK, resp, logger)
	}
}

func GetFileHandler(svc server.UploadService, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filename := mux.Vars(r)["filename"]
		if filename == "" {
			writeErr(w, errors.New("empty filename"), http.StatusBadRequest)
			return
		}

		file, err := svc.GetFile(r.Context(), filename)
		if err != nil {
			if !errors.Is(err, domain.ErrFileNotFound) {
				level.Error(logger).Log("msg", "GetFile error", "err", err)
			}
			writeErr(w, err, statusFor(err))
			return
		}
		defer file.Body.Close()

		contentType := mime.TypeByExtension(path.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.FormatInt(file.Meta.ContentLength, 10))

		if r.Method == http.MethodHead {
			return
		}

		if _, err = io.Copy(w, file.Body); err != nil {
			level.Error(logger).Log("msg", "error body copy", "err", err)
			return
		}
	}
}

func writeFormFileErr(w http.ResponseWriter, field string, err error, logger log.Logger) {
	level.Warn(logger).Log("msg", "FormFile error",
		"field", field,
		"err", err,
	)

	if errors.Is(err, http.ErrMissingFile) {
		writeErr(w, domain.ErrMissingPart, http.StatusBadRequest)
		return
	}
	writeErr(w, fmt.Errorf("can't read %s: %w", field, err), http.StatusBadRequest)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingPart), errors.Is(err, domain.ErrInvalidFilename):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFileTooLarge), errors.Is(err, multipart.ErrMessageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrNotEnoughSpace):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger log.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Error(logger).Log("msg", "can't write response", "err", err)
	}
}

func writeErr(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()}); err != nil {
		fmt.Println("can't write response ", err)
	}
}
