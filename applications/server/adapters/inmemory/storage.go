package inmemory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/arch2mesh/uploader/applications/server/domain"
	"github.com/arch2mesh/uploader/applications/server/interfaces"
)

const DefaultCapacityInBytes = 100 * 1024 * 1024 // 100 Mb

type inMemoryStorage struct {
	dataByPath map[string][]byte
	freeSpace  int64
	log        log.Logger
	mutex      sync.RWMutex
}

func NewStorage(capacity int64, logger log.Logger) interfaces.Storage {
	if capacity <= 0 {
		capacity = DefaultCapacityInBytes
	}

	return &inMemoryStorage{
		log:        logger,
		dataByPath: map[string][]byte{},
		freeSpace:  capacity,
	}
}

func (m *inMemoryStorage) Describe() string {
	return "memory"
}

func (m *inMemoryStorage) SaveFile(ctx context.Context, path string, body io.Reader) (int64, error) {
	path, err := domain.CleanStoredPath(path)
	if err != nil {
		return 0, err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return 0, fmt.Errorf("can't read body: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	dataLen := int64(len(data))
	available := m.freeSpace + int64(len(m.dataByPath[path]))
	if dataLen > available {
		return 0, fmt.Errorf("%w: need %s, have %s", domain.ErrNotEnoughSpace,
			humanize.Bytes(uint64(dataLen)), humanize.Bytes(uint64(available)))
	}

	m.dataByPath[path] = data
	m.freeSpace = available - dataLen

	level.Info(m.log).Log("msg", "file stored",
		"path", path,
		"storage", m.Describe(),
		"size", humanize.Bytes(uint64(dataLen)),
		"free_space", humanize.Bytes(uint64(m.freeSpace)),
	)

	return dataLen, nil
}

func (m *inMemoryStorage) OpenFile(ctx context.Context, path string) (domain.File, error) {
	path, err := domain.CleanStoredPath(path)
	if err != nil {
		return domain.File{}, err
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	data, ok := m.dataByPath[path]
	if !ok {
		return domain.File{}, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}

	level.Debug(m.log).Log("msg", "file read",
		"path", path,
		"storage", m.Describe(),
	)

	return domain.File{
		Meta: domain.FileMeta{
			Name:          path,
			ContentLength: int64(len(data)),
		},
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}
