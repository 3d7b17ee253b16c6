package update

import (
	"cmp"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/maerl/reporting/internal/domain/errs"
)

// Column identifies a sortable and filterable table column.
type Column string

const (
	ColumnProject         Column = "project"
	ColumnDate            Column = "date"
	ColumnOutput          Column = "output"
	ColumnImpactIndicator Column = "impact_indicator"
	ColumnType            Column = "type"
	ColumnValue           Column = "value"
	ColumnDescription     Column = "description"
)

// Columns lists every table column in display order.
var Columns = []Column{
	ColumnProject, ColumnDate, ColumnOutput, ColumnImpactIndicator,
	ColumnType, ColumnValue, ColumnDescription,
}

const filterPrefix = "filter_"

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	return slices.Contains(Columns, c)
}

// Sort is the active sort. An empty Column means unsorted.
type Sort struct {
	Column Column `json:"column,omitempty"`
	Desc   bool   `json:"desc,omitempty"`
}

// TableState is the serializable sort, filter and date range of the updates
// table. Transition methods return a new state and leave the receiver as is.
type TableState struct {
	Sort    Sort              `json:"sort"`
	Filters map[Column]string `json:"filters,omitempty"`
	Range   DateRange         `json:"range"`
}

// ToggleSort advances col through unsorted, ascending, descending and back
// to unsorted. Selecting a different column starts it at ascending.
func (s TableState) ToggleSort(col Column) TableState {
	next := s.clone()
	switch {
	case s.Sort.Column != col:
		next.Sort = Sort{Column: col}
	case !s.Sort.Desc:
		next.Sort = Sort{Column: col, Desc: true}
	default:
		next.Sort = Sort{}
	}
	return next
}

// SetFilter requires rows to match value on col. An empty value clears it.
func (s TableState) SetFilter(col Column, value string) TableState {
	next := s.clone()
	if value == "" {
		delete(next.Filters, col)
	} else {
		if next.Filters == nil {
			next.Filters = make(map[Column]string)
		}
		next.Filters[col] = value
	}
	return next
}

// SetDateRange replaces the date range.
func (s TableState) SetDateRange(r DateRange) TableState {
	next := s.clone()
	next.Range = r
	return next
}

func (s TableState) clone() TableState {
	next := s
	next.Filters = maps.Clone(s.Filters)
	return next
}

// Apply returns the updates passing every filter and the date range, stably
// sorted by the active sort. The input slice is not reordered.
func (s TableState) Apply(updates []Update) []Update {
	out := make([]Update, 0, len(updates))
	for _, u := range updates {
		if s.matches(u) {
			out = append(out, u)
		}
	}
	if s.Sort.Column == "" {
		return out
	}
	slices.SortStableFunc(out, func(a, b Update) int {
		c := compareColumn(s.Sort.Column, a, b)
		if s.Sort.Desc {
			return -c
		}
		return c
	})
	return out
}

func (s TableState) matches(u Update) bool {
	if !s.Range.Contains(u.Date) {
		return false
	}
	for col, want := range s.Filters {
		if ColumnValueOf(col, u) != want {
			return false
		}
	}
	return true
}

// ColumnValueOf returns the text of col for u, as matched by filters.
func ColumnValueOf(col Column, u Update) string {
	switch col {
	case ColumnProject:
		if u.Project != nil {
			return u.Project.Name
		}
	case ColumnDate:
		return isoOrEmpty(u.Date)
	case ColumnOutput:
		if u.OutputMeasurable != nil {
			return u.OutputMeasurable.Code
		}
	case ColumnImpactIndicator:
		if u.ImpactIndicator != nil {
			return u.ImpactIndicator.Code
		}
	case ColumnType:
		return string(u.Type)
	case ColumnValue:
		if u.Value != nil {
			return FormatValue(*u.Value)
		}
	case ColumnDescription:
		return u.Description
	}
	return ""
}

func compareColumn(col Column, a, b Update) int {
	switch col {
	case ColumnDate:
		return a.Date.Compare(b.Date)
	case ColumnValue:
		switch {
		case a.Value == nil && b.Value == nil:
			return 0
		case a.Value == nil:
			return -1
		case b.Value == nil:
			return 1
		}
		return cmp.Compare(*a.Value, *b.Value)
	default:
		return strings.Compare(ColumnValueOf(col, a), ColumnValueOf(col, b))
	}
}

// ParseTableState reads a table state from query parameters: from and to as
// ISO dates, sort as a column optionally prefixed with "-" for descending,
// and filter_<column> for each column filter.
func ParseTableState(q url.Values) (TableState, error) {
	r, err := ParseDateRange(q.Get("from"), q.Get("to"))
	if err != nil {
		return TableState{}, err
	}
	state := TableState{Range: r}

	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		col := Column(strings.TrimPrefix(raw, "-"))
		if !col.Valid() {
			return TableState{}, errs.Invalid("sort")
		}
		state.Sort = Sort{Column: col, Desc: strings.HasPrefix(raw, "-")}
	}

	for key, values := range q {
		name, ok := strings.CutPrefix(key, filterPrefix)
		if !ok {
			continue
		}
		col := Column(name)
		if !col.Valid() {
			return TableState{}, errs.Invalid(key)
		}
		if len(values) > 0 {
			state = state.SetFilter(col, values[0])
		}
	}
	return state, nil
}

// Query renders the state as query parameters accepted by ParseTableState.
func (s TableState) Query() url.Values {
	q := url.Values{}
	if from := s.Range.FromString(); from != "" {
		q.Set("from", from)
	}
	if to := s.Range.ToString(); to != "" {
		q.Set("to", to)
	}
	if s.Sort.Column != "" {
		sort := string(s.Sort.Column)
		if s.Sort.Desc {
			sort = "-" + sort
		}
		q.Set("sort", sort)
	}
	for col, v := range s.Filters {
		q.Set(filterPrefix+string(col), v)
	}
	return q
}
