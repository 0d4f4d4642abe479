package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ScratchDir is a private working directory owned by one pipeline run.
type ScratchDir struct {
	// Path is the absolute location of the directory.
	Path string
}

// NewScratchDir creates <parent>/mashup-<runID>. An empty parent means
// os.TempDir().
//
// Example:
//
//	scratch, err := NewScratchDir("", uuid.NewString())
//	if err != nil {
//	    return err
//	}
//	defer scratch.Remove()
func NewScratchDir(parent, runID string) (*ScratchDir, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	if runID == "" {
		return nil, errors.New("scratch directory needs a run id")
	}
	path := filepath.Join(parent, "mashup-"+runID)
	if err := os.Mkdir(path, 0700); err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		os.RemoveAll(path)
		return nil, err
	}
	return &ScratchDir{Path: abs}, nil
}

// File returns the path of name inside the scratch directory.
func (s *ScratchDir) File(name string) string {
	return filepath.Join(s.Path, filepath.Base(name))
}

// Remove deletes the directory and everything in it. It is safe to call
// more than once.
func (s *ScratchDir) Remove() error {
	if s == nil || s.Path == "" {
		return nil
	}
	return os.RemoveAll(s.Path)
}

// CopyFile copies a file from source to destination.
//
// The destination file is created with mode 0644 if it doesn't exist,
// or truncated if it does. The copy stops early when ctx is cancelled.
func CopyFile(ctx context.Context, src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(destFile, &ctxReader{ctx: ctx, r: sourceFile})
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
	}
	return err
}

// MoveFile renames src to dst, falling back to copy and delete when the
// two paths are on different filesystems.
func MoveFile(ctx context.Context, src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(ctx, src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// WriteFile writes data to path through a temporary file in the same
// directory, so readers never observe a partial file.
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
