package domain

import (
	"fmt"
	"path"
	"strings"
)

// CleanFilename reduces a client supplied filename to its base name.
// Both slash and backslash count as separators.
func CleanFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(name)

	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if strings.ContainsRune(base, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}

	return base, nil
}

// CleanStoredPath validates a slash separated path relative to the upload root.
func CleanStoredPath(p string) (string, error) {
	if p == "" || strings.Contains(p, `\`) || strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, p)
	}

	cleaned := path.Clean("/" + p)
	if cleaned == "/" || cleaned != "/"+p {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, p)
	}

	return strings.TrimPrefix(cleaned, "/"), nil
}
