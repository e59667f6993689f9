// Package storage keeps uploaded files and hands back the URL they are served
// from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/techstaff/pkg/apperr"
)

var ErrTooLarge = errors.New("file exceeds size limit")

type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// allowed CV extensions
var extensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// Local writes files under Dir and serves them under BaseURL.
type Local struct {
	Dir      string
	BaseURL  string
	MaxBytes int64
}

func NewLocal(dir, baseURL string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), MaxBytes: maxBytes}, nil
}

// Upload stores r under a generated name keeping the original extension.
// The original name never reaches the filesystem.
func (l *Local) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !extensions[ext] {
		return "", apperr.Newf(apperr.KindValidation, "unsupported file type %q", ext)
	}
	if err := ctx.Err(); err != nil {
		return "", apperr.Unavailable("upload", err)
	}

	stored := uuid.NewString() + ext
	dst := filepath.Join(l.Dir, stored)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperr.Unavailable("upload", err)
	}

	src := r
	if l.MaxBytes > 0 {
		src = io.LimitReader(r, l.MaxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && l.MaxBytes > 0 && n > l.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(dst)
		if errors.Is(err, ErrTooLarge) {
			return "", apperr.Wrap(apperr.KindValidation, fmt.Sprintf("file larger than %d bytes", l.MaxBytes), err)
		}
		return "", apperr.Unavailable("upload", err)
	}
	return l.BaseURL + "/" + stored, nil
}
