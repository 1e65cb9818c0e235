package ledger

import (
	"errors"

	"github.com/bft-labs/labelrec/internal/domain"
)

// RowProgress is one checklist row's counts for a person.
type RowProgress struct {
	Label string
	Done  int
	Total int
}

// Complete reports whether the row needs no more samples.
func (r RowProgress) Complete() bool { return r.Done >= r.Total }

// Summary returns the progress of every row of t for person, finished rows
// included.
func Summary(t *domain.Checklist, person string) ([]RowProgress, error) {
	v, err := Activate(t, person)
	var ee *domain.ExhaustedError
	switch {
	case errors.As(err, &ee):
		// Columns are valid; only the view is empty.
		v = &View{
			Table:    t,
			Person:   person,
			labelCol: t.Column(domain.LabelColumn),
			doneCol:  t.Column(domain.DoneColumn(person)),
			totalCol: t.Column(domain.TotalColumn(person)),
		}
	case err != nil:
		return nil, err
	}

	out := make([]RowProgress, 0, len(t.Rows))
	for row := range t.Rows {
		done, total, err := v.counts(row)
		if err != nil {
			return nil, err
		}
		out = append(out, RowProgress{Label: t.Cell(row, v.labelCol), Done: done, Total: total})
	}
	return out, nil
}
