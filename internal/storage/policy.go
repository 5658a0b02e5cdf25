// Package storage is the blob store behind profile images and technician
// certification documents. A single validation policy is shared by every
// upload path, and two drivers implement persistence: local disk and S3.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind partitions stored files; each kind has its own extension allow-list
// and storage prefix.
type Kind string

const (
	KindImage    Kind = "images"
	KindDocument Kind = "documents"
)

// ErrInvalidFile is the base error for any upload rejected by the policy.
// Handlers translate it into HTTP 400.
var ErrInvalidFile = errors.New("invalid file")

// MaxFileSize is the upload ceiling for both kinds.
const MaxFileSize = 10 << 20 // 10MB

// Policy validates uploads before any bytes reach a driver.
type Policy struct {
	maxBytes    int64
	allowedExts map[Kind]map[string]bool
}

// DefaultPolicy returns the policy applied to all uploads: at most 10MB,
// images restricted to common raster formats, documents to common text
// formats.
func DefaultPolicy() Policy {
	return Policy{
		maxBytes: MaxFileSize,
		allowedExts: map[Kind]map[string]bool{
			KindImage:    extSet("jpg", "jpeg", "png", "gif", "bmp", "webp"),
			KindDocument: extSet("pdf", "doc", "docx", "txt", "rtf"),
		},
	}
}

// Validate checks size and extension for the given kind. The returned error
// wraps ErrInvalidFile with a human message naming the constraint.
func (p Policy) Validate(filename string, size int64, kind Kind) error {
	if size > p.maxBytes {
		return fmt.Errorf("%w: file size cannot exceed %dMB", ErrInvalidFile, p.maxBytes>>20)
	}
	allowed, ok := p.allowedExts[kind]
	if !ok {
		return fmt.Errorf("%w: unknown file kind %q", ErrInvalidFile, kind)
	}
	ext := Ext(filename)
	if ext == "" || !allowed[ext] {
		return fmt.Errorf("%w: extension %q not allowed for %s", ErrInvalidFile, ext, kind)
	}
	return nil
}

// Ext returns the lowercased extension of filename without the dot.
func Ext(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

func extSet(exts ...string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, e := range exts {
		m[e] = true
	}
	return m
}
