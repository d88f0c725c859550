package model

import (
	"database/sql/driver"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DayList is a set of day offsets before a due date (0 = the due date
// itself). Stored as a postgres integer array.
type DayList []int

// Contains reports whether day is in the list.
func (d DayList) Contains(day int) bool {
	for _, v := range d {
		if v == day {
			return true
		}
	}
	return false
}

// Normalize drops negative offsets, removes duplicates and sorts ascending.
// Negative offsets are meaningless and silently ignored.
func (d DayList) Normalize() DayList {
	seen := make(map[int]struct{}, len(d))
	out := make(DayList, 0, len(d))
	for _, v := range d {
		if v < 0 {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func (d DayList) Value() (driver.Value, error) {
	arr := make(pq.Int64Array, len(d))
	for i, v := range d {
		arr[i] = int64(v)
	}
	return arr.Value()
}

func (d *DayList) Scan(src interface{}) error {
	var arr pq.Int64Array
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("failed to scan day list: %w", err)
	}
	out := make(DayList, len(arr))
	for i, v := range arr {
		out[i] = int(v)
	}
	*d = out
	return nil
}

// UUIDList is a uuid slice stored as a postgres uuid array.
type UUIDList []uuid.UUID

func (l UUIDList) Value() (driver.Value, error) {
	arr := make(pq.StringArray, len(l))
	for i, v := range l {
		arr[i] = v.String()
	}
	return arr.Value()
}

func (l *UUIDList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("failed to scan uuid list: %w", err)
	}
	out := make(UUIDList, 0, len(arr))
	for _, s := range arr {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("failed to parse uuid %q: %w", s, err)
		}
		out = append(out, id)
	}
	*l = out
	return nil
}
