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


package aggregator

import (
	"fmt"
	"strings"
)

// Mode tells an evaluator which pair of operations the host will call next.
type Mode int

const (
	// PARTIAL1 raw rows to partial aggregation: Iterate and TerminatePartial
	PARTIAL1 Mode = iota + 1
	// PARTIAL2 partial to partial aggregation: Merge and TerminatePartial
	PARTIAL2
	// FINAL partial to full aggregation: Merge and Terminate
	FINAL
	// COMPLETE raw rows to full aggregation: Iterate and Terminate
	COMPLETE
)

func (m Mode) String() string {
	switch m {
	case PARTIAL1:
		return "PARTIAL1"
	case PARTIAL2:
		return "PARTIAL2"
	case FINAL:
		return "FINAL"
	case COMPLETE:
		return "COMPLETE"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PARTIAL1":
		return PARTIAL1, nil
	case "PARTIAL2":
		return PARTIAL2, nil
	case "FINAL":
		return FINAL, nil
	case "COMPLETE":
		return COMPLETE, nil
	}
	return 0, fmt.Errorf("unknown aggregation mode %q", s)
}

// Valid reports whether m is one of the four modes.
func (m Mode) Valid() bool {
	return m >= PARTIAL1 && m <= COMPLETE
}

// ConsumesRaw reports whether the evaluator reads raw rows (Iterate).
func (m Mode) ConsumesRaw() bool {
	return m == PARTIAL1 || m == COMPLETE
}

// ConsumesPartial reports whether the evaluator reads partial results (Merge).
func (m Mode) ConsumesPartial() bool {
	return m == PARTIAL2 || m == FINAL
}

// ProducesPartial reports whether the evaluator emits partial results (TerminatePartial).
func (m Mode) ProducesPartial() bool {
	return m == PARTIAL1 || m == PARTIAL2
}
