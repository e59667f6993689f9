package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garnizeh/techstaff/internal/storage"
	"github.com/garnizeh/techstaff/pkg/apperr"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	up, err := storage.NewLocal(filepath.Join(dir, "cv"), "/files/", 1024)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	url, err := up.Upload(context.Background(), "Jean Dupont.PDF", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(url, "/files/") || !strings.HasSuffix(url, ".pdf") {
		t.Fatalf("unexpected url %q", url)
	}
	data, err := os.ReadFile(filepath.Join(dir, "cv", strings.TrimPrefix(url, "/files/")))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestLocalUploadRejects(t *testing.T) {
	dir := t.TempDir()
	up, err := storage.NewLocal(dir, "/files", 4)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	tests := []struct {
		name string
		file string
		body string
	}{
		{name: "extension", file: "cv.exe", body: "x"},
		{name: "no extension", file: "cv", body: "x"},
		{name: "too large", file: "cv.pdf", body: "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := up.Upload(context.Background(), tt.file, strings.NewReader(tt.body))
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must not leave files, found %d", len(entries))
	}
}

func TestLocalUploadCancelled(t *testing.T) {
	up, err := storage.NewLocal(t.TempDir(), "/files", 0)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = up.Upload(ctx, "cv.pdf", strings.NewReader("x"))
	if !apperr.Is(err, apperr.KindStoreUnavailable) {
		t.Fatalf("expected store unavailable for cancelled context, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cause must be kept, got %v", err)
	}
}
