// Package validate implements the uniqueness validator: it scans the input
// rows for duplicate values in designated key columns and reports them with
// 1-based row numbers.
//
// Values are compared in canonical string form (records.Canon), so the JSON
// number 1 and the string "1" collide. This cross-type matching is inherited
// behavior that mapping configs rely on; see DESIGN.md.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"remap/pkg/records"
)

// DuplicateValue is one value that appeared more than once in a key column.
// Rows holds every 1-based row number where the value occurred, in input
// order (the first element is the first occurrence).
type DuplicateValue struct {
	Value string
	Rows  []int
}

// ColumnDuplicates groups the duplicates found in one key column, in
// first-seen order.
type ColumnDuplicates struct {
	Column string
	Values []DuplicateValue
}

// Result is the outcome of a uniqueness check. IsValid is false exactly when
// Duplicates is non-empty. Messages holds one human-readable line per
// duplicate value per column.
type Result struct {
	IsValid    bool
	Duplicates []ColumnDuplicates
	Messages   []string
}

// Unique checks each key column independently over rows, in input order.
// Empty and absent values are skipped entirely: they are never reported as
// duplicates and never count as a first occurrence. Columns are reported in
// keyColumns order; within a column, values appear in first-seen order.
func Unique(rows []records.Record, keyColumns []string) Result {
	res := Result{IsValid: true}

	for _, column := range keyColumns {
		firstSeen := make(map[string]int, len(rows))
		dupIndex := make(map[string]int)
		var dups []DuplicateValue

		for i, row := range rows {
			v, ok := row[column]
			if !ok || records.Empty(v) {
				continue
			}
			key := records.Canon(v)
			rowNum := i + 1

			first, seen := firstSeen[key]
			if !seen {
				firstSeen[key] = rowNum
				continue
			}
			di, tracked := dupIndex[key]
			if !tracked {
				dupIndex[key] = len(dups)
				dups = append(dups, DuplicateValue{Value: key, Rows: []int{first, rowNum}})
				continue
			}
			dups[di].Rows = append(dups[di].Rows, rowNum)
		}

		if len(dups) == 0 {
			continue
		}
		res.IsValid = false
		res.Duplicates = append(res.Duplicates, ColumnDuplicates{Column: column, Values: dups})
		for _, d := range dups {
			res.Messages = append(res.Messages, Message(d.Value, column, d.Rows))
		}
	}

	return res
}

// Message renders the canonical duplicate report line:
//
//	Value "001" in column "id" appears multiple times in rows: 1, 4
func Message(value, column string, rowNums []int) string {
	parts := make([]string, len(rowNums))
	for i, n := range rowNums {
		parts[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("Value %q in column %q appears multiple times in rows: %s",
		value, column, strings.Join(parts, ", "))
}
