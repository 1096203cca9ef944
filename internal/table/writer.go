package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ClashLogSuffix is inserted before the output extension to name the
// collision log.
const ClashLogSuffix = "_clash_log"

// Write emits header and rows as delimited text.
func Write(w io.Writer, header []string, rows [][]string, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	cw := csv.NewWriter(w)
	cw.Comma = delimiter

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// WriteFileAtomic creates path by calling fn with a temporary file in the
// same directory and renaming it into place once fn and Close succeed.
// On any failure the temporary file is removed and path is left untouched.
// Missing parent directories are created.
func WriteFileAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// CreateTemp uses 0600: the output still links rows to a pseudonym.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()        //nolint:errcheck // Already failing
			_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// WriteFile writes header and rows to path atomically.
func WriteFile(path string, header []string, rows [][]string, delimiter rune) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return Write(w, header, rows, delimiter)
	})
}

// ClashLogPath derives the collision log path from the output path by
// inserting ClashLogSuffix before the final extension:
// "out/data.csv" becomes "out/data_clash_log.csv". Paths without an
// extension get ".csv".
func ClashLogPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	if ext == "" {
		ext = ".csv"
	}
	return base + ClashLogSuffix + ext
}

// SamePath reports whether a and b name the same file after making both
// absolute and clean. Symlinks are not resolved.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
