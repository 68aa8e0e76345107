package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeTarGz builds a small .tar.gz fixture with the given files, where map
// values are file contents. Keys ending in "/" become directories.
func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		if name[len(name)-1] == '/' {
			if err := tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
				t.Fatalf("failed to write dir header: %v", err)
			}
			continue
		}
		hdr := &tar.Header{Name: name, Mode: 0755, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
}

func TestIsArchive(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"app.tar.gz", true},
		{"app.tgz", true},
		{"app.tar.bz2", true},
		{"app.tar.xz", true},
		{"app.tar", true},
		{"app.zip", true},
		{"app.7z", true},
		{"app.bin", false},
		{"app.desktop", false},
		{"README", false},
	}
	for _, tt := range tests {
		if got := IsArchive(tt.path); got != tt.want {
			t.Errorf("IsArchive(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExtract_TarGz(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "app.tar.gz")
	writeTarGz(t, src, map[string]string{
		"app/":        "",
		"app/bin/run": "#!/bin/sh\necho hi\n",
		"app/README":  "readme\n",
	})

	dest := filepath.Join(tmp, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("failed to create dest: %v", err)
	}
	if err := Extract(context.Background(), src, dest); err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "app", "bin", "run"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "#!/bin/sh\necho hi\n" {
		t.Errorf("extracted content = %q", data)
	}

	info, err := os.Stat(filepath.Join(dest, "app", "bin", "run"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("executable bit lost: mode = %v", info.Mode())
	}
}

func TestExtract_Zip(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "app.zip")
	writeZip(t, src, map[string]string{
		"app/data.txt": "zipped\n",
	})

	dest := filepath.Join(tmp, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("failed to create dest: %v", err)
	}
	if err := Extract(context.Background(), src, dest); err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "app", "data.txt"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(data) != "zipped\n" {
		t.Errorf("extracted content = %q", data)
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "app.rar")
	if err := os.WriteFile(src, []byte("not an archive"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	err := Extract(context.Background(), src, tmp)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Extract() = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtract_CorruptArchive(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "app.tar.gz")
	if err := os.WriteFile(src, []byte("definitely not gzip"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := Extract(context.Background(), src, tmp); err == nil {
		t.Error("Extract() should fail on a corrupt archive")
	}
}

func TestExtract_RejectsPathTraversal(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "evil.tar.gz")
	writeTarGz(t, src, map[string]string{
		"../escape.txt": "pwned",
	})

	dest := filepath.Join(tmp, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("failed to create dest: %v", err)
	}
	if err := Extract(context.Background(), src, dest); err == nil {
		t.Error("Extract() should reject entries escaping the target directory")
	}
	if _, err := os.Stat(filepath.Join(tmp, "escape.txt")); err == nil {
		t.Error("traversal entry was written outside the target directory")
	}
}

func TestExtract_CancelledContext(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "app.tar.gz")
	writeTarGz(t, src, map[string]string{
		"app/a.txt": "a",
		"app/b.txt": "b",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(tmp, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("failed to create dest: %v", err)
	}
	if err := Extract(ctx, src, dest); !errors.Is(err, context.Canceled) {
		t.Errorf("Extract() with cancelled context = %v, want context.Canceled", err)
	}
}

func TestCopyFile(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "tool.bin")
	if err := os.WriteFile(src, []byte("binary"), 0755); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	dest := filepath.Join(tmp, "out")
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("failed to create dest: %v", err)
	}
	if err := CopyFile(src, dest); err != nil {
		t.Fatalf("CopyFile() failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dest, "tool.bin"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("executable bit lost on copy: mode = %v", info.Mode())
	}
}
