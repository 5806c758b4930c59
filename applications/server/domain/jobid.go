package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	jobIDPrefix   = "job-"
	jobIDRandSize = 4
)

// NewJobID returns "job-" followed by 8 lowercase hex characters.
func NewJobID() (string, error) {
	return newJobIDFrom(rand.Reader)
}

func newJobIDFrom(r io.Reader) (string, error) {
	b := make([]byte, jobIDRandSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("can't read random bytes: %w", err)
	}

	return jobIDPrefix + hex.EncodeToString(b), nil
}
