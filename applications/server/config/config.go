package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"
)

const (
	DriverDisk   = "disk"
	DriverMemory = "memory"
)

const (
	defaultHTTPAddr       = "0.0.0.0:8000"
	defaultMaxUploadSize  = "100MB"
	defaultUploadDir      = "uploads"
	defaultMemoryCapacity = "100MB"
)

// Environment variables overriding the file values.
const (
	EnvHTTPAddr       = "UPLOADER_HTTP_ADDR"
	EnvMaxUploadSize  = "UPLOADER_MAX_UPLOAD_SIZE"
	EnvStorageDriver  = "UPLOADER_STORAGE_DRIVER"
	EnvUploadDir      = "UPLOADER_UPLOAD_DIR"
	EnvNamespaceByJob = "UPLOADER_NAMESPACE_BY_JOB"
)

type Server struct {
	API     Api     `yaml:"api"`
	Storage Storage `yaml:"storage"`
}

type Api struct {
	HTTPAddr      string `yaml:"http_addr"`
	MaxUploadSize string `yaml:"max_upload_size"`
}

type Storage struct {
	Driver         string `yaml:"driver"`
	UploadDir      string `yaml:"upload_dir"`
	NamespaceByJob bool   `yaml:"namespace_by_job"`
	MemoryCapacity string `yaml:"memory_capacity"`
}

func Default() Server {
	return Server{
		API: Api{
			HTTPAddr:      defaultHTTPAddr,
			MaxUploadSize: defaultMaxUploadSize,
		},
		Storage: Storage{
			Driver:         DriverDisk,
			UploadDir:      defaultUploadDir,
			MemoryCapacity: defaultMemoryCapacity,
		},
	}
}

// Parse reads the YAML file at path over the defaults. An empty path yields the defaults.
func Parse(path string) (Server, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Server{}, fmt.Errorf("can't read config file: %w", err)
	}

	if err = yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Server{}, fmt.Errorf("can't unmarshal config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields with the UPLOADER_* variables that are set.
func (s *Server) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHTTPAddr); ok {
		s.API.HTTPAddr = v
	}
	if v, ok := lookup(EnvMaxUploadSize); ok {
		s.API.MaxUploadSize = v
	}
	if v, ok := lookup(EnvStorageDriver); ok {
		s.Storage.Driver = v
	}
	if v, ok := lookup(EnvUploadDir); ok {
		s.Storage.UploadDir = v
	}
	if v, ok := lookup(EnvNamespaceByJob); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvNamespaceByJob, err)
		}
		s.Storage.NamespaceByJob = b
	}

	return nil
}

func (s Server) Validate() error {
	if s.API.HTTPAddr == "" {
		return errors.New("api.http_addr is required")
	}
	if _, err := s.API.MaxUploadBytes(); err != nil {
		return err
	}

	switch s.Storage.Driver {
	case DriverDisk:
		if s.Storage.UploadDir == "" {
			return errors.New("storage.upload_dir is required for disk driver")
		}
	case DriverMemory:
		if _, err := s.Storage.MemoryCapacityBytes(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", s.Storage.Driver)
	}

	return nil
}

func (a Api) MaxUploadBytes() (int64, error) {
	return parseSize("api.max_upload_size", a.MaxUploadSize)
}

func (s Storage) MemoryCapacityBytes() (int64, error) {
	return parseSize("storage.memory_capacity", s.MemoryCapacity)
}

func parseSize(field, v string) (int64, error) {
	n, err := humanize.ParseBytes(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, v, err)
	}
	if n == 0 || n > 1<<62 {
		return 0, fmt.Errorf("invalid %s %q: out of range", field, v)
	}

	return int64(n), nil
}
