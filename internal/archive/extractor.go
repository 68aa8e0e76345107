// Package archive extracts install archives into a target directory.
//
// Supported container formats: .tar, .tar.gz/.tgz, .tar.bz2, .tar.xz/.txz,
// .zip and .7z. Format detection is by file name suffix, matching how the
// archives are produced; content sniffing is deliberately out of scope.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/xi2/xz"
)

// ErrUnsupportedFormat means the file suffix matches no known container
// format.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// IsArchive reports whether src has a supported container suffix.
func IsArchive(src string) bool {
	for _, ext := range []string{".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tar.xz", ".txz", ".zip", ".7z"} {
		if strings.HasSuffix(src, ext) {
			return true
		}
	}
	return false
}

// Extract unpacks src into dest, which must already exist. Existing files are
// overwritten. The context is checked between entries so a cancelled
// extraction stops promptly; the caller is responsible for cleaning up the
// partially filled dest.
func Extract(ctx context.Context, src, dest string) error {
	switch {
	case strings.HasSuffix(src, ".zip"):
		return extractZip(ctx, src, dest)
	case strings.HasSuffix(src, ".7z"):
		return extract7z(ctx, src, dest)
	case strings.HasSuffix(src, ".tar"), strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"),
		strings.HasSuffix(src, ".tar.bz2"), strings.HasSuffix(src, ".tar.xz"), strings.HasSuffix(src, ".txz"):
		return extractTar(ctx, src, dest)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(src))
	}
}

func extractTar(ctx context.Context, src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	switch {
	case strings.HasSuffix(src, ".tar.gz"), strings.HasSuffix(src, ".tgz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case strings.HasSuffix(src, ".tar.bz2"):
		reader = bzip2.NewReader(f)
	case strings.HasSuffix(src, ".tar.xz"), strings.HasSuffix(src, ".txz"):
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	}

	tr := tar.NewReader(reader)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, fileMode(hdr.FileInfo().Mode(), 0755)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, fileMode(hdr.FileInfo().Mode(), 0644)); err != nil {
				return err
			}
		}
	}
}

func extractZip(ctx context.Context, src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, fileMode(f.Mode(), 0755)); err != nil {
				return err
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(target, rc, fileMode(f.Mode(), 0644))
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extract7z(ctx context.Context, src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, fileMode(f.Mode(), 0755)); err != nil {
				return err
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(target, rc, fileMode(f.Mode(), 0644))
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies a plain (non-archive) install file into dest, preserving
// the source's mode bits. Used for installers shipped as a single binary.
func CopyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	target := filepath.Join(dest, filepath.Base(src))
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// writeEntry writes one archive entry to target, creating parent directories.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// safeJoin joins name onto dest and rejects entries escaping the target
// directory via ".." components or absolute names.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes target directory: %s", name)
	}
	return target, nil
}

// fileMode returns the entry's permission bits, or fallback when the archive
// recorded none.
func fileMode(mode os.FileMode, fallback os.FileMode) os.FileMode {
	if perm := mode.Perm(); perm != 0 {
		return perm
	}
	return fallback
}
