package utils

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrRootRequired = errors.New("root required")
	ErrEscapesRoot  = errors.New("path escapes root")
)

// SecureJoin joins root and userPath and rejects results outside root.
// An absolute userPath is treated as relative to root.
func SecureJoin(root, userPath string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", ErrRootRequired
	}
	cleanRoot := filepath.Clean(root)
	if strings.TrimSpace(userPath) == "" {
		return cleanRoot, nil
	}
	up := filepath.Clean(userPath)
	if filepath.IsAbs(up) {
		up = strings.TrimPrefix(up, string(filepath.Separator))
	}
	candidate := filepath.Join(cleanRoot, up)
	rel, err := filepath.Rel(cleanRoot, candidate)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrEscapesRoot
	}
	return candidate, nil
}
