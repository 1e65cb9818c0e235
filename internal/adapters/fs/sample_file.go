package fs

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/bft-labs/labelrec/internal/domain"
)

var errBadName = errors.New("name must not contain path separators or '..'")

// SampleFileStore implements ports.SampleStore with one append-only text
// file per person and label.
type SampleFileStore struct{}

// NewSampleFileStore creates a SampleFileStore.
func NewSampleFileStore() *SampleFileStore {
	return &SampleFileStore{}
}

// SamplePath returns {root}/{person}/{label}.txt.
func SamplePath(root, person, label string) string {
	return filepath.Join(root, person, label+".txt")
}

// Append writes every segment line followed by a separator line per
// segment, creating the person directory when needed.
func (s *SampleFileStore) Append(root, person, label string, segments [][]string, separator string) (string, error) {
	path := SamplePath(root, person, label)
	if !safeName(person) || !safeName(label) {
		return path, &domain.IOError{Op: "resolve sample file", Path: path, Err: errBadName}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, &domain.IOError{Op: "create directory for", Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return path, &domain.IOError{Op: "open", Path: path, Err: err}
	}

	w := bufio.NewWriter(f)
	for _, seg := range segments {
		for _, line := range seg {
			w.WriteString(line)
			w.WriteByte('\n')
		}
		w.WriteString(separator)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return path, &domain.IOError{Op: "append samples to", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return path, &domain.IOError{Op: "close", Path: path, Err: err}
	}
	return path, nil
}

func safeName(s string) bool {
	return s != "" && s != "." && !strings.Contains(s, "..") && !strings.ContainsAny(s, `/\`)
}
