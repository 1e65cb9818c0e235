package ports

import "github.com/bft-labs/labelrec/internal/domain"

// ChecklistStore handles the checklist file.
type ChecklistStore interface {
	// Load reads the whole table. Returns *domain.FormatError when the file is
	// not a CSV table.
	Load(path string) (*domain.Checklist, error)

	// Save rewrites the whole table to c.Path, keeping header and column
	// order. Implementations write atomically.
	Save(c *domain.Checklist) error
}

// SampleStore appends captured samples to per-label text files.
type SampleStore interface {
	// Append writes each segment's lines followed by one separator line to
	// {root}/{person}/{label}.txt and returns that path.
	Append(root, person, label string, segments [][]string, separator string) (string, error)
}
