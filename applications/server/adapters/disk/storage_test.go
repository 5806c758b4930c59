package disk

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch2mesh/uploader/applications/server/domain"
)

func newTestStorage(t *testing.T) (string, *diskStorage) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "uploads")
	st, err := NewStorage(root, log.NewNopLogger())
	require.NoError(t, err)

	return root, st.(*diskStorage)
}

func TestNewStorageCreatesDirectory(t *testing.T) {
	root, _ := newTestStorage(t)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = NewStorage(root, log.NewNopLogger())
	assert.NoError(t, err)
}

func TestNewStorageEmptyRoot(t *testing.T) {
	_, err := NewStorage("", log.NewNopLogger())
	assert.Error(t, err)
}

func TestSaveAndOpenFile(t *testing.T) {
	root, st := newTestStorage(t)
	ctx := context.Background()

	n, err := st.SaveFile(ctx, "plan.png", strings.NewReader("ABC"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	data, err := os.ReadFile(filepath.Join(root, "plan.png"))
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(data))

	file, err := st.OpenFile(ctx, "plan.png")
	require.NoError(t, err)
	defer file.Body.Close()

	body, err := io.ReadAll(file.Body)
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(body))
	assert.Equal(t, int64(3), file.Meta.ContentLength)
}

func TestSaveFileOverwrites(t *testing.T) {
	root, st := newTestStorage(t)
	ctx := context.Background()

	_, err := st.SaveFile(ctx, "plan.png", strings.NewReader("first version"))
	require.NoError(t, err)
	_, err = st.SaveFile(ctx, "plan.png", strings.NewReader("v2"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "plan.png"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestSaveFileNested(t *testing.T) {
	root, st := newTestStorage(t)

	_, err := st.SaveFile(context.Background(), "job-00000001/plan.png", strings.NewReader("ABC"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "job-00000001", "plan.png"))
	require.NoError(t, err)
	assert.Equal(t, "ABC", string(data))
}

func TestSaveFileRejectsTraversal(t *testing.T) {
	root, st := newTestStorage(t)

	_, err := st.SaveFile(context.Background(), "../escape.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidFilename)

	_, err = os.Stat(filepath.Join(filepath.Dir(root), "escape.txt"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSaveFileRemovesPartialFile(t *testing.T) {
	root, st := newTestStorage(t)

	_, err := st.SaveFile(context.Background(), "broken.png", iotest.ErrReader(errors.New("client gone")))
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(root, "broken.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSaveFileCanceledContext(t *testing.T) {
	root, st := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := st.SaveFile(ctx, "plan.png", strings.NewReader("ABC"))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(root, "plan.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpenFileNotFound(t *testing.T) {
	root, st := newTestStorage(t)
	ctx := context.Background()

	_, err := st.OpenFile(ctx, "missing.png")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	require.NoError(t, os.Mkdir(filepath.Join(root, "job-00000002"), 0o755))
	_, err = st.OpenFile(ctx, "job-00000002")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
