package datasource

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

func normalizeSort(in []SortDescriptor) []SortDescriptor {
	out := make([]SortDescriptor, 0, len(in))
	for _, desc := range in {
		field := strings.TrimSpace(desc.Field)
		if field == "" {
			continue
		}
		dir := Direction(strings.ToLower(string(desc.Dir)))
		if dir != Desc {
			dir = Asc
		}
		out = append(out, SortDescriptor{Field: field, Dir: dir})
	}
	return out
}

// sortRecords returns a sorted copy of records. The sort is stable so rows
// with equal keys keep their source order.
func sortRecords(records []Record, sort []SortDescriptor) []Record {
	out := append([]Record(nil), records...)
	if len(sort) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		for _, desc := range sort {
			c := Compare(a[desc.Field], b[desc.Field])
			if c == 0 {
				continue
			}
			if desc.Dir == Desc {
				return -c
			}
			return c
		}
		return 0
	})
	return out
}

func pageSlice(records []Record, page, size int) []Record {
	if size <= 0 {
		return records
	}
	start := (page - 1) * size
	if start < 0 || start >= len(records) {
		return []Record{}
	}
	end := min(start+size, len(records))
	return records[start:end]
}

// Compare orders two field values. Nil sorts first, numbers compare
// numerically, times chronologically, everything else by its string form.
func Compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
