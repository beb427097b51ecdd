package builtin

import (
	"archive/zip"
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonwraymond/toolcall/call"
)

// DefaultAlgorithm is the checksum algorithm used when none is given.
const DefaultAlgorithm = "SHA-256"

// ErrUnsupportedAlgorithm is returned for unknown checksum algorithms.
var ErrUnsupportedAlgorithm = errors.New("unsupported checksum algorithm")

// FileChecksum returns the lower-case hex digest of the file at path.
// algorithm accepts MD5, SHA-1, SHA-256 and SHA-512 in any case, with or
// without the dash.
func FileChecksum(path, algorithm string) (string, error) {
	h, err := newHash(algorithm)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fsError(err)
	}
	defer f.Close()
	if _, err := io.Copy(h, f); err != nil {
		return "", fsError(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func newHash(algorithm string) (hash.Hash, error) {
	switch strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(algorithm)), "-", "") {
	case "", "SHA256":
		return sha256.New(), nil
	case "SHA1":
		return sha1.New(), nil
	case "SHA512":
		return sha512.New(), nil
	case "MD5":
		return md5.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// Checksum is the body of the "checksum <file> [algorithm]" tool.
func Checksum(_ context.Context, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		fmt.Fprintln(stderr, "Usage: checksum <file> [algorithm]")
		return 1
	}
	algorithm := DefaultAlgorithm
	if len(argv) > 1 {
		algorithm = argv[1]
	}
	sum, err := FileChecksum(argv[0], algorithm)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, sum)
	return 0
}

// Unzip extracts the archive at archive into dir. The first strip path
// elements of every entry are removed; entries with no elements left are
// skipped. It returns the extracted file paths in archive order.
func Unzip(archive, dir string, strip int) ([]string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fsError(err)
	}
	defer r.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fsError(err)
	}

	var files []string
	for _, entry := range r.File {
		parts := strings.Split(strings.Trim(entry.Name, "/"), "/")
		if len(parts) <= strip {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(strings.Join(parts[strip:], "/")))
		if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
			return files, fmt.Errorf("%w: entry %q escapes %s", call.ErrInvalidArgument, entry.Name, dir)
		}
		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return files, fsError(err)
			}
			continue
		}
		if err := unzipFile(entry, target); err != nil {
			return files, err
		}
		files = append(files, target)
	}
	return files, nil
}

func unzipFile(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fsError(err)
	}
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := entry.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fsError(err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fsError(err)
	}
	return dst.Close()
}

// Extract is the body of the "extract <zip> <dir> [strip]" tool.
func Extract(_ context.Context, argv []string, _, stderr io.Writer) int {
	if len(argv) < 2 {
		fmt.Fprintln(stderr, "Usage: extract <zip> <dir> [strip]")
		return 1
	}
	strip := 0
	if len(argv) > 2 {
		n, err := strconv.Atoi(argv[2])
		if err != nil || n < 0 {
			fmt.Fprintf(stderr, "invalid strip count: %s\n", argv[2])
			return 1
		}
		strip = n
	}
	if _, err := Unzip(argv[0], argv[1], strip); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func fsError(err error) error {
	return fmt.Errorf("%w: %w", call.ErrFileSystem, err)
}
