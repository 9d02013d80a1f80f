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


package runner

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/hiveudf/aggregator"
	"github.com/rulego/hiveudf/logger"
	"github.com/rulego/hiveudf/types"
)

var codes = []string{"000001", "300750", "600519", "002594", "688981", "", "abc"}

func sampleRows(n int, seed int64) []Row {
	rnd := rand.New(rand.NewSource(seed))
	rows := make([]Row, n)
	for i := range rows {
		var name interface{} = fmt.Sprintf("name-%d-%s", i, "股票"[:rnd.Intn(2)*3])
		if rnd.Intn(10) == 0 {
			name = nil
		}
		rows[i] = Row{"code": codes[rnd.Intn(len(codes))], "name": name}
	}
	return rows
}

// expected computes the answer directly, one group per stock board label.
func expected(rows []Row) map[string]int64 {
	out := make(map[string]int64)
	for _, row := range rows {
		code, _ := row["code"].(string)
		key := fmt.Sprintf("%#v", classify(code))
		s, _ := row["name"].(string)
		out[key] += int64(utf8.RuneCountInString(s))
	}
	return out
}

func classify(code string) string {
	switch {
	case code == "":
		return "code error"
	case code[0] == '0':
		return "SZ small/medium board"
	case code[0] == '3':
		return "SZ growth board"
	case code[0] == '6':
		return "SH main board"
	default:
		return "code error"
	}
}

func newRunner(t *testing.T, cfg types.Config, opts ...Option) *Runner {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewDiscardLogger())}, opts...)
	r, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(r.Close)
	return r
}

func sums(results []GroupResult) map[string]int64 {
	out := make(map[string]int64, len(results))
	for _, r := range results {
		out[r.Key] = r.Sum
	}
	return out
}

func TestRunnerShapes(t *testing.T) {
	rows := sampleRows(500, 7)
	want := expected(rows)
	job := Job{Function: "string_length_sum", Argument: "name", GroupBy: []string{"stock_board(code)"}}

	Convey("every execution shape yields the same groups", t, func() {
		shapes := []struct {
			partitions, reducers, fanIn int
		}{
			{1, 1, 0},
			{1, 1, 2},
			{4, 1, 0},
			{4, 2, 2},
			{7, 3, 2},
			{16, 4, 3},
			{600, 5, 4},
		}
		for _, s := range shapes {
			cfg := types.DefaultConfig()
			cfg.Partitions, cfg.Reducers, cfg.CombineFanIn = s.partitions, s.reducers, s.fanIn
			r := newRunner(t, cfg)

			Convey(fmt.Sprintf("partitions=%d reducers=%d fanIn=%d", s.partitions, s.reducers, s.fanIn), func() {
				results, err := r.Run(context.Background(), job, rows)
				So(err, ShouldBeNil)
				So(sums(results), ShouldResemble, want)
				for i := 1; i < len(results); i++ {
					So(results[i-1].Key, ShouldBeLessThan, results[i].Key)
				}
				for _, res := range results {
					So(res.Values, ShouldHaveLength, 1)
				}
			})
		}
	})
}

func TestRunnerGlobalAggregate(t *testing.T) {
	Convey("without GROUP BY there is exactly one group", t, func() {
		cfg := types.DefaultConfig()
		r := newRunner(t, cfg)
		job := Job{Function: "string_length_sum", Argument: "name"}

		Convey("over some rows", func() {
			rows := []Row{{"name": "abc"}, {"name": "股票"}, {"name": nil}, {}}
			results, err := r.Run(context.Background(), job, rows)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			So(results[0].Key, ShouldEqual, "")
			So(results[0].Sum, ShouldEqual, 5)
		})

		Convey("over no rows", func() {
			results, err := r.Run(context.Background(), job, nil)
			So(err, ShouldBeNil)
			So(results, ShouldHaveLength, 1)
			So(results[0].Sum, ShouldEqual, 0)
		})

		Convey("in complete mode over no rows", func() {
			cfg := types.DefaultConfig()
			cfg.Partitions, cfg.Reducers = 1, 1
			r := newRunner(t, cfg)
			results, err := r.Run(context.Background(), job, nil)
			So(err, ShouldBeNil)
			So(results, ShouldResemble, []GroupResult{{Key: "", Sum: 0}})
		})
	})
}

func TestRunnerArgumentExpression(t *testing.T) {
	r := newRunner(t, types.DefaultConfig())
	rows := []Row{{"code": "600519"}, {"code": "300750"}, {"code": ""}}
	results, err := r.Run(context.Background(), Job{
		Function: "STRING_LENGTH_SUM",
		Argument: "stock_board(code)",
	}, rows)
	require.NoError(t, err)
	require.Len(t, results, 1)
	want := utf8.RuneCountInString("SH main board") +
		utf8.RuneCountInString("SZ growth board") +
		utf8.RuneCountInString("code error")
	assert.Equal(t, int64(want), results[0].Sum)
}

func TestRunnerErrors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		cfg := types.DefaultConfig()
		cfg.Workers = 0
		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("unknown function", func(t *testing.T) {
		r := newRunner(t, types.DefaultConfig())
		_, err := r.Run(context.Background(), Job{Function: "nope", Argument: "name"}, nil)
		assert.Error(t, err)
	})

	t.Run("empty function", func(t *testing.T) {
		r := newRunner(t, types.DefaultConfig())
		_, err := r.Run(context.Background(), Job{Argument: "name"}, nil)
		assert.Error(t, err)
	})

	t.Run("non string argument type", func(t *testing.T) {
		r := newRunner(t, types.DefaultConfig())
		_, err := r.Run(context.Background(), Job{
			Function: "string_length_sum",
			ArgTypes: []types.TypeInfo{types.Int},
			Argument: "name",
		}, nil)
		var typeErr *aggregator.ArgumentTypeError
		assert.ErrorAs(t, err, &typeErr)
	})

	t.Run("bad expression", func(t *testing.T) {
		r := newRunner(t, types.DefaultConfig())
		_, err := r.Run(context.Background(), Job{Function: "string_length_sum", Argument: "name +"}, nil)
		assert.Error(t, err)
	})

	t.Run("null rejected in a map task", func(t *testing.T) {
		cfg := types.DefaultConfig()
		cfg.NullPolicy = types.NullReject
		r := newRunner(t, cfg)
		rows := []Row{{"name": "a"}, {"name": "b"}, {"name": nil}, {"name": "c"}}
		_, err := r.Run(context.Background(), Job{Function: "string_length_sum", Argument: "name"}, rows)
		require.Error(t, err)
		assert.ErrorIs(t, err, aggregator.ErrNullElement)
		assert.Contains(t, err.Error(), "map task")
	})
}

func TestRunnerCanceled(t *testing.T) {
	r := newRunner(t, types.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, Job{Function: "string_length_sum", Argument: "name"}, sampleRows(10, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	cfg := types.DefaultConfig()
	cfg.Partitions, cfg.Reducers, cfg.CombineFanIn = 4, 2, 2
	r := newRunner(t, cfg, WithMetrics(metrics))

	rows := sampleRows(40, 3)
	_, err := r.Run(context.Background(), Job{Function: "string_length_sum", Argument: "name"}, rows)
	require.NoError(t, err)

	assert.Same(t, metrics, r.Metrics())
	assert.Equal(t, float64(40), testutil.ToFloat64(metrics.rows))
	// 4 map tasks, 2 combine tasks, 2 reducers
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.tasks.WithLabelValues(PhaseMap)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.tasks.WithLabelValues(PhaseCombine)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.tasks.WithLabelValues(PhaseReduce)))
	// the global group is emitted once per map and combine task
	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.partials.WithLabelValues(PhaseMap)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.partials.WithLabelValues(PhaseCombine)))

	stats := metrics.Stats()
	assert.Equal(t, Stats{Rows: 40, Tasks: 8, Partials: 6}, stats)

	count, err := testutil.GatherAndCount(reg, "hiveudf_runner_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSplit(t *testing.T) {
	rows := sampleRows(10, 2)
	parts := split(rows, 3)
	require.Len(t, parts, 3)
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	assert.Equal(t, 10, total)
	assert.Len(t, split(nil, 4), 4)
	assert.Len(t, split(rows, 0), 1)
	assert.Len(t, split(rows[:2], 5), 5)
}

func TestShardStable(t *testing.T) {
	for _, key := range []string{"", `"SH main board"`, "x"} {
		i := shard(key, 4)
		assert.Equal(t, i, shard(key, 4))
		assert.True(t, i >= 0 && i < 4)
	}
}
