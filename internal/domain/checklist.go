package domain

import "fmt"

// Column names and suffixes of the checklist CSV.
const (
	LabelColumn = "label"
	DoneSuffix  = "_done_count"
	TotalSuffix = "_total_count"
)

// DoneColumn returns the done-count column name for person.
func DoneColumn(person string) string { return person + DoneSuffix }

// TotalColumn returns the total-count column name for person.
func TotalColumn(person string) string { return person + TotalSuffix }

// Checklist is the progress table loaded from a CSV file. Cells are kept as
// text so that columns the ledger never touches are written back verbatim.
type Checklist struct {
	// Path is the file the table was loaded from and is persisted to.
	Path string

	// Header holds the column names in file order.
	Header []string

	// Rows holds one record per checklist row, each len(Header) wide.
	Rows [][]string
}

// Column returns the index of the named column, or -1.
func (c *Checklist) Column(name string) int {
	for i, h := range c.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the text at (row, col).
func (c *Checklist) Cell(row, col int) string {
	return c.Rows[row][col]
}

// SetCell replaces the text at (row, col).
func (c *Checklist) SetCell(row, col int, v string) {
	c.Rows[row][col] = v
}

// LabelSnapshot is the current-label banner: what to record next and how far
// along the active person is.
type LabelSnapshot struct {
	Label     string
	Done      int
	Total     int
	Remaining int
	Finished  bool
}

// FinishedBanner is shown once every row of the view is complete.
const FinishedBanner = "The current CSV file is finished. Choose another file."

// String renders the banner text.
func (s LabelSnapshot) String() string {
	if s.Finished {
		return FinishedBanner
	}
	return fmt.Sprintf("Next label: %s (%d/%d) Rem: %d", s.Label, s.Done, s.Total, s.Remaining)
}

// CommitResult describes a saved take.
type CommitResult struct {
	Snapshot      LabelSnapshot
	Path          string
	SegmentsSaved int
	Advanced      bool
}

// Controls is the enablement of the operator controls.
type Controls struct {
	Connect bool
	Start   bool
	Stop    bool
	Mark    bool
	Save    bool
}
