package fs

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"strings"

	"github.com/bft-labs/labelrec/internal/domain"
)

const utf8BOM = "\uFEFF"

// ChecklistFileRepository implements ports.ChecklistStore on CSV files.
type ChecklistFileRepository struct{}

// NewChecklistFileRepository creates a ChecklistFileRepository.
func NewChecklistFileRepository() *ChecklistFileRepository {
	return &ChecklistFileRepository{}
}

// Load reads the whole CSV file. The first record is the header and every
// record must have as many fields as the header.
func (r *ChecklistFileRepository) Load(path string) (*domain.Checklist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.FormatError{Path: path, Err: err}
	}
	defer f.Close()

	cr := csv.NewReader(f)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, &domain.FormatError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &domain.FormatError{Path: path, Err: errors.New("empty file")}
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	return &domain.Checklist{
		Path:   path,
		Header: header,
		Rows:   records[1:],
	}, nil
}

// Save rewrites the table atomically: the CSV is written to a temp file next
// to the target and renamed over it. The file keeps its permissions.
func (r *ChecklistFileRepository) Save(c *domain.Checklist) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(c.Header); err != nil {
		return &domain.IOError{Op: "encode checklist", Path: c.Path, Err: err}
	}
	if err := w.WriteAll(c.Rows); err != nil {
		return &domain.IOError{Op: "encode checklist", Path: c.Path, Err: err}
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(c.Path); err == nil {
		mode = fi.Mode().Perm()
	}

	tmp := c.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), mode); err != nil {
		return &domain.IOError{Op: "write checklist", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, c.Path); err != nil {
		os.Remove(tmp)
		return &domain.IOError{Op: "replace checklist", Path: c.Path, Err: err}
	}
	return nil
}
