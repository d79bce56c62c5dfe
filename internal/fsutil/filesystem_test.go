package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_ReadFile(t *testing.T) {
	fsys := OSFileSystem{}

	data, err := fsys.ReadFile("filesystem.go")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if len(data) == 0 {
		t.Error("expected non-empty file content")
	}
}

func TestOSFileSystem_MkdirAllStat(t *testing.T) {
	fsys := OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "a", "b")

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	info, err := fsys.Stat(dir)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("%s should be a directory", dir)
	}
}

func TestOSFileSystem_CreateOpenSeek(t *testing.T) {
	fsys := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "seek.bin")

	w, err := fsys.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("headerPAYLOAD")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	if _, err := f.Seek(-7, io.SeekEnd); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	tail, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(tail) != "PAYLOAD" {
		t.Errorf("expected PAYLOAD, got %q", tail)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("hello, world")
	if err := mfs.WriteFile("/test.ply", testData, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("/test.ply")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestMemoryFileSystem_CreateNeedsParent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.Create("/missing/out.ply")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	if err := mfs.MkdirAll("/missing", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	w, err := mfs.Create("/missing/out.ply")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestMemoryFileSystem_OpenSeekRead(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.WriteFile("/data.bin", []byte("0123456789"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := mfs.Open("/data.bin")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	tests := []struct {
		name   string
		offset int64
		whence int
		want   string
	}{
		{"start", 2, io.SeekStart, "23456789"},
		{"end", -3, io.SeekEnd, "789"},
		{"current", -5, io.SeekCurrent, "56789"},
	}
	for _, tt := range tests {
		if _, err := f.Seek(tt.offset, tt.whence); err != nil {
			t.Fatalf("%s: Seek failed: %v", tt.name, err)
		}
		got, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("%s: ReadAll failed: %v", tt.name, err)
		}
		if string(got) != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}

	if _, err := f.Seek(-100, io.SeekEnd); err == nil {
		t.Error("expected error seeking before start")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := f.Read(make([]byte, 1)); !errors.Is(err, fs.ErrClosed) {
		t.Errorf("expected ErrClosed after Close, got %v", err)
	}
}

func TestMemoryFileSystem_OpenHandles(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.WriteFile("/a.ply", []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r, err := mfs.Open("/a.ply")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	w, err := mfs.Create("/b.ply")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := mfs.OpenHandles(); got != 2 {
		t.Errorf("expected 2 open handles, got %d", got)
	}

	r.Close()
	w.Close()
	if got := mfs.OpenHandles(); got != 0 {
		t.Errorf("expected 0 open handles, got %d", got)
	}
}

func TestMemoryFileSystem_Stat(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("/stattest.ply", []byte("stat content"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := mfs.Stat("/stattest.ply")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	if info.Name() != "stattest.ply" {
		t.Errorf("expected name 'stattest.ply', got %q", info.Name())
	}
	if info.Size() != int64(len("stat content")) {
		t.Errorf("expected size %d, got %d", len("stat content"), info.Size())
	}
	if info.IsDir() {
		t.Error("expected file, not directory")
	}

	for _, dir := range []string{".", "/"} {
		info, err := mfs.Stat(dir)
		if err != nil {
			t.Fatalf("Stat(%q) failed: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("expected %q to be a directory", dir)
		}
	}
}

func TestMemoryFileSystem_MkdirAllAndRemove(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/a/b/c", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, dir := range []string{"/a", "/a/b", "/a/b/c"} {
		if _, err := mfs.Stat(dir); err != nil {
			t.Errorf("expected %s to exist: %v", dir, err)
		}
	}

	if err := mfs.WriteFile("/a/b/file.ply", []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := mfs.Remove("/a/b"); err == nil {
		t.Error("expected error removing non-empty directory")
	}
	if err := mfs.Remove("/a/b/file.ply"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := mfs.Stat("/a/b/file.ply"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected removed file to be gone, got %v", err)
	}
	if err := mfs.Remove("/nonexistent"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_DataIsolation(t *testing.T) {
	mfs := NewMemoryFileSystem()

	original := []byte("original")
	if err := mfs.WriteFile("/iso.ply", original, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	original[0] = 'X'

	data, _ := mfs.ReadFile("/iso.ply")
	if string(data) != "original" {
		t.Errorf("stored data changed with caller slice: %q", data)
	}
	data[0] = 'Y'
	again, _ := mfs.ReadFile("/iso.ply")
	if string(again) != "original" {
		t.Errorf("stored data changed with returned slice: %q", again)
	}
}

func TestMemoryFileSystem_PathCleaning(t *testing.T) {
	mfs := NewMemoryFileSystem()
	if err := mfs.MkdirAll("/dir", os.ModePerm); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := mfs.WriteFile("/dir/../dir/./clean.ply", []byte("c"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := mfs.ReadFile("/dir/clean.ply"); err != nil {
		t.Errorf("expected cleaned path to resolve: %v", err)
	}
}
