package domain

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jobIDPattern = regexp.MustCompile(`^job-[0-9a-f]{8}$`)

func TestNewJobID(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id, err := NewJobID()
		require.NoError(t, err)
		assert.Regexp(t, jobIDPattern, id)

		seen[id] = struct{}{}
	}

	assert.Greater(t, len(seen), 95)
}

func TestNewJobIDFromReader(t *testing.T) {
	id, err := newJobIDFrom(bytes.NewReader([]byte{0xde, 0xad, 0x0b, 0x1f}))
	require.NoError(t, err)
	assert.Equal(t, "job-dead0b1f", id)
}

func TestNewJobIDShortRead(t *testing.T) {
	_, err := newJobIDFrom(bytes.NewReader([]byte{0x01}))
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = newJobIDFrom(iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)
}
