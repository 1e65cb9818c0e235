// Package ledger tracks recording progress against the checklist: which
// labels still need samples for the active person, and the done counts that
// grow as takes are committed.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bft-labs/labelrec/internal/domain"
	"github.com/bft-labs/labelrec/internal/ports"
)

// Ledger loads checklists and commits takes against an activated View.
// It is not safe for concurrent use.
type Ledger struct {
	store   ports.ChecklistStore
	samples ports.SampleStore
	logger  ports.Logger

	// unsaved holds segments already appended to a sample file whose count
	// never reached the checklist because the save failed.
	unsaved *unsavedAppend
}

type unsavedAppend struct {
	table    *domain.Checklist
	person   string
	row      int
	take     uint64
	path     string
	segments int
}

// New creates a Ledger over the given stores.
func New(store ports.ChecklistStore, samples ports.SampleStore, logger ports.Logger) *Ledger {
	return &Ledger{store: store, samples: samples, logger: logger}
}

// Load reads the checklist at path. The file must carry a .csv extension.
func (l *Ledger) Load(path string) (*domain.Checklist, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, &domain.FormatError{Path: path, Err: domain.ErrNotCSV}
	}
	t, err := l.store.Load(path)
	if err != nil {
		return nil, err
	}
	l.logger.Info("checklist loaded",
		ports.String("path", path),
		ports.Int("rows", len(t.Rows)),
		ports.Any("people", People(t)),
	)
	return t, nil
}

// View is the ordered list of rows the active person has not finished, with
// a cursor on the row being recorded.
type View struct {
	Table  *domain.Checklist
	Person string

	labelCol, doneCol, totalCol int

	rows      []int
	cursor    int
	remaining int
}

// Activate builds the view of unfinished rows of t for person and positions
// the cursor on the first one.
func Activate(t *domain.Checklist, person string) (*View, error) {
	v := &View{
		Table:    t,
		Person:   person,
		labelCol: t.Column(domain.LabelColumn),
		doneCol:  t.Column(domain.DoneColumn(person)),
		totalCol: t.Column(domain.TotalColumn(person)),
	}

	var missing []string
	if v.labelCol < 0 {
		missing = append(missing, domain.LabelColumn)
	}
	if v.doneCol < 0 {
		missing = append(missing, domain.DoneColumn(person))
	}
	if v.totalCol < 0 {
		missing = append(missing, domain.TotalColumn(person))
	}
	if person == "" || len(missing) > 0 {
		return nil, &domain.ColumnError{Missing: missing}
	}

	for row := range t.Rows {
		done, total, err := v.counts(row)
		if err != nil {
			return nil, err
		}
		if done < total {
			v.rows = append(v.rows, row)
		}
	}
	if len(v.rows) == 0 {
		return nil, &domain.ExhaustedError{Person: person}
	}
	v.remaining = len(v.rows)
	return v, nil
}

func (v *View) counts(row int) (done, total int, err error) {
	if done, err = v.cell(row, v.doneCol); err != nil {
		return 0, 0, err
	}
	if total, err = v.cell(row, v.totalCol); err != nil {
		return 0, 0, err
	}
	return done, total, nil
}

func (v *View) cell(row, col int) (int, error) {
	n, err := ParseCount(v.Table.Cell(row, col))
	if err != nil {
		return 0, &domain.FormatError{
			Path: v.Table.Path,
			Err:  fmt.Errorf("row %d column %s: %w", row+1, v.Table.Header[col], err),
		}
	}
	return n, nil
}

// Finished reports whether the cursor is past the last row.
func (v *View) Finished() bool { return v.cursor >= len(v.rows) }

// Remaining is the number of view rows not yet completed.
func (v *View) Remaining() int { return v.remaining }

// Current returns the banner for the row under the cursor.
func (v *View) Current() domain.LabelSnapshot {
	if v.Finished() {
		return domain.LabelSnapshot{Finished: true}
	}
	row := v.rows[v.cursor]
	// Counts were validated by Activate and only ever rewritten as integers.
	done, total, _ := v.counts(row)
	return domain.LabelSnapshot{
		Label:     v.Table.Cell(row, v.labelCol),
		Done:      done,
		Total:     total,
		Remaining: v.remaining,
	}
}

// Commit appends the segments of take to the current label's sample file,
// adds their count to the done column and persists the checklist. When the
// row reaches its total the cursor moves to the next unfinished row.
//
// A failed append leaves the checklist untouched; a failed persist rolls the
// in-memory count back. Both return *domain.IOError. After a failed persist
// the appended segments stay on disk: retrying the same take does not append
// them again, and the next successful save of the row counts them.
func (l *Ledger) Commit(v *View, take uint64, segments [][]string, outputRoot, separator string) (domain.CommitResult, error) {
	if v.Finished() {
		return domain.CommitResult{}, domain.NewNotReady(
			"The current csv file is finished. Please choose another file.", "CSV finished error")
	}

	row := v.rows[v.cursor]
	label := v.Table.Cell(row, v.labelCol)

	pending := l.unsaved
	if pending != nil && (pending.table != v.Table || pending.person != v.Person || pending.row != row) {
		pending = nil
	}
	var path string
	if pending != nil && pending.take == take {
		path = pending.path
		l.logger.Info("retrying checklist save, samples already written",
			ports.String("label", label), ports.String("samples", path))
	} else {
		var err error
		path, err = l.samples.Append(outputRoot, v.Person, label, segments, separator)
		if err != nil {
			var ioe *domain.IOError
			if !errors.As(err, &ioe) {
				err = &domain.IOError{Op: "append samples to", Path: path, Err: err}
			}
			return domain.CommitResult{}, err
		}
		n := len(segments)
		if pending != nil {
			n += pending.segments
		}
		pending = &unsavedAppend{table: v.Table, person: v.Person, row: row, take: take, path: path, segments: n}
		l.unsaved = pending
	}

	done, total, err := v.counts(row)
	if err != nil {
		return domain.CommitResult{}, err
	}
	prev := v.Table.Cell(row, v.doneCol)
	done += pending.segments
	v.Table.SetCell(row, v.doneCol, strconv.Itoa(done))
	if err := l.store.Save(v.Table); err != nil {
		v.Table.SetCell(row, v.doneCol, prev)
		var ioe *domain.IOError
		if !errors.As(err, &ioe) {
			err = &domain.IOError{Op: "write checklist", Path: v.Table.Path, Err: err}
		}
		return domain.CommitResult{}, err
	}
	l.unsaved = nil

	res := domain.CommitResult{Path: path, SegmentsSaved: pending.segments}
	if done >= total {
		v.cursor++
		v.remaining--
		res.Advanced = true
	}
	res.Snapshot = v.Current()

	l.logger.Info("take committed",
		ports.String("label", label),
		ports.String("person", v.Person),
		ports.Int("segments", pending.segments),
		ports.Int("done", done),
		ports.Int("total", total),
		ports.Bool("advanced", res.Advanced),
		ports.String("samples", path),
	)
	return res, nil
}

// People lists the person names that have both count columns, in header
// order.
func People(t *domain.Checklist) []string {
	var out []string
	for _, h := range t.Header {
		p, ok := strings.CutSuffix(h, domain.DoneSuffix)
		if !ok || p == "" {
			continue
		}
		if t.Column(domain.TotalColumn(p)) >= 0 {
			out = append(out, p)
		}
	}
	return out
}

// ParseCount parses a non-negative count cell. Empty cells count as zero and
// integral floats ("3.0", as spreadsheet tools write them) are accepted.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("count %q is not an integer", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("count %q is negative", s)
	}
	return n, nil
}
