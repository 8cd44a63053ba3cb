// Package table implements the client-side listing pipeline used by every
// portal grid: full-text search, per-column filters, single-column sort and
// page slicing over normalized rows. Compute is a pure function so identical
// inputs always produce identical pages.
package table

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-memberportal/pkg/rowset"
)

// Direction selects the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// State carries the user-driven view parameters for one grid.
type State struct {
	SearchText    string
	Filters       map[string]string
	SortField     string
	SortDirection Direction
	PageIndex     int
	PageSize      int
}

// Result is one computed page plus the totals the pager needs.
type Result struct {
	PageRows   []rowset.Flat
	TotalCount int
	TotalPages int
	// PageIndex is the effective page after clamping; callers should adopt
	// it so their state stays inside the filtered row count.
	PageIndex int
}

// DefaultPageSize applies when State.PageSize is zero or negative.
const DefaultPageSize = 10

// Compute runs the fixed pipeline (search, filter, sort, paginate) over the
// supplied rows. The order is not configurable; keeping it fixed keeps results
// deterministic. Input rows are never mutated; sorting works on a copied
// slice.
func Compute(rows []rowset.Flat, state State) Result {
	filtered := applySearch(rows, state.SearchText)
	filtered = applyFilters(filtered, state.Filters)

	if state.SortField != "" {
		filtered = sortRows(filtered, state.SortField, state.SortDirection)
	}

	pageSize := state.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	pageIndex := state.PageIndex
	if pageIndex < 0 || pageIndex*pageSize >= total {
		pageIndex = 0
	}

	start := pageIndex * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Result{
		PageRows:   filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
		PageIndex:  pageIndex,
	}
}

func applySearch(rows []rowset.Flat, search string) []rowset.Flat {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return append([]rowset.Flat(nil), rows...)
	}

	out := make([]rowset.Flat, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(searchBlob(row), search) {
			out = append(out, row)
		}
	}
	return out
}

// searchBlob joins every cell of the row with spaces, in key order so the
// blob is stable across runs. Fields the grid does not display still match;
// search covers the whole row.
func searchBlob(row rowset.Flat) string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		builder.WriteString(row[key])
		builder.WriteByte(' ')
	}
	return strings.ToLower(builder.String())
}

func applyFilters(rows []rowset.Flat, filters map[string]string) []rowset.Flat {
	if len(filters) == 0 {
		return rows
	}

	out := make([]rowset.Flat, 0, len(rows))
	for _, row := range rows {
		keep := true
		for apiName, want := range filters {
			if strings.TrimSpace(want) == "" {
				continue
			}
			if !strings.EqualFold(strings.TrimSpace(row[apiName]), strings.TrimSpace(want)) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func sortRows(rows []rowset.Flat, field string, direction Direction) []rowset.Flat {
	out := append([]rowset.Flat(nil), rows...)
	descending := direction == Descending

	sort.Slice(out, func(i, j int) bool {
		cmp := CompareCells(out[i][field], out[j][field])
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// CompareCells orders two cell values: both dates compare as timestamps, both
// numbers compare numerically, anything else compares as case-insensitive
// strings with empty cells smallest. Equal values report -1, never 0; the
// portal this engine replaces behaved that way and downstream ordering
// expectations depend on it, so ties stay "less than" on purpose.
func CompareCells(a, b string) int {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)

	switch {
	case a == "" && b != "":
		return -1
	case a != "" && b == "":
		return 1
	}

	if at, aok := parseCellDate(a); aok {
		if bt, bok := parseCellDate(b); bok {
			if at.Before(bt) {
				return -1
			}
			if at.After(bt) {
				return 1
			}
			return -1
		}
	}

	if af, aok := parseCellNumber(a); aok {
		if bf, bok := parseCellNumber(b); bok {
			if af < bf {
				return -1
			}
			if af > bf {
				return 1
			}
			return -1
		}
	}

	switch strings.Compare(strings.ToLower(a), strings.ToLower(b)) {
	case 1:
		return 1
	default:
		return -1
	}
}

var cellDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

func parseCellDate(value string) (time.Time, bool) {
	// Bare numbers parse as neither date nor RFC3339; reject them early so
	// numeric columns never detour through date comparison.
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Time{}, false
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseCellNumber(value string) (float64, bool) {
	cleaned := strings.ReplaceAll(value, ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
