/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package table

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// minimum column width
const minWidth = 4

// Print writes data as a bordered text table followed by a row count.
// Columns follow fieldOrder; columns not named there are appended in
// alphabetical order. Cell widths are display widths, so CJK text aligns.
func Print(w io.Writer, data []map[string]interface{}, fieldOrder []string) {
	if len(data) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}
	columns := Columns(data, fieldOrder)

	cells := make([][]string, len(data))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(runewidth.StringWidth(col), minWidth)
	}
	for r, row := range data {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			if v, ok := row[col]; ok {
				cells[r][i] = fmt.Sprintf("%v", v)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cells[r][i]))
		}
	}

	border := Border(widths)
	fmt.Fprint(w, border)
	writeRow(w, columns, widths)
	fmt.Fprint(w, border)
	for _, row := range cells {
		writeRow(w, row, widths)
	}
	fmt.Fprint(w, border)
	fmt.Fprintf(w, "(%d rows)\n", len(data))
}

// Columns returns the column order Print uses.
func Columns(data []map[string]interface{}, fieldOrder []string) []string {
	seen := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			seen[col] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for _, field := range fieldOrder {
		if seen[field] {
			columns = append(columns, field)
			delete(seen, field)
		}
	}
	rest := make([]string, 0, len(seen))
	for col := range seen {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

// Border renders a `+----+` line for the given column widths.
func Border(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteString("+")
	}
	b.WriteString("\n")
	return b.String()
}

func writeRow(w io.Writer, cells []string, widths []int) {
	var b strings.Builder
	b.WriteString("|")
	for i, cell := range cells {
		b.WriteString(" ")
		b.WriteString(runewidth.FillRight(cell, widths[i]))
		b.WriteString(" |")
	}
	b.WriteString("\n")
	_, _ = io.WriteString(w, b.String())
}
