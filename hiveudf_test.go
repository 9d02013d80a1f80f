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


package hiveudf

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulego/hiveudf/aggregator"
	"github.com/rulego/hiveudf/functions"
	"github.com/rulego/hiveudf/logger"
	"github.com/rulego/hiveudf/types"
)

var stockRows = []Row{
	{"code": "600519", "name": "贵州茅台"},
	{"code": "000001", "name": "平安银行"},
	{"code": "300750", "name": "宁德时代"},
	{"code": "601318", "name": "中国平安"},
	{"code": "", "name": "unknown"},
	{"code": "900901", "name": nil},
}

func TestNewAppliesOptions(t *testing.T) {
	h, err := New(
		WithDiscardLog(),
		WithPartitions(3),
		WithReducers(5),
		WithCombineFanIn(0),
		WithWorkers(2),
		WithNullPolicy(types.NullReject),
	)
	require.NoError(t, err)
	defer h.Close()

	cfg := h.Config()
	assert.Equal(t, 3, cfg.Partitions)
	assert.Equal(t, 5, cfg.Reducers)
	assert.Equal(t, 0, cfg.CombineFanIn)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, types.NullReject, cfg.NullPolicy)
}

func TestNewWithConfig(t *testing.T) {
	cfg, err := types.ParseConfig([]byte("partitions: 1\nreducers: 1\nlogLevel: off\n"))
	require.NoError(t, err)

	h, err := New(WithLogger(logger.NewDiscardLogger()), WithConfig(cfg), WithWorkers(3))
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, 1, h.Config().Partitions)
	assert.Equal(t, 3, h.Config().Workers)
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(WithDiscardLog(), WithPartitions(0), WithWorkers(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partitions")
	assert.Contains(t, err.Error(), "workers")

	_, err = New(WithDiscardLog(), WithConfig(types.Config{
		Partitions: 1, Reducers: 1, Workers: 1, NullPolicy: types.NullAsZero, LogLevel: "loud",
	}))
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	h, err := New(WithDiscardLog())
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, functions.BoardSHMain, h.Classify("600519"))
	assert.Equal(t, functions.BoardSZGrowth, h.Classify("300750"))
	assert.Equal(t, functions.BoardSZSmallMedium, h.Classify("000001"))
	assert.Equal(t, functions.CodeError, h.Classify(""))

	v, err := h.Evaluate("STOCK_BOARD(code)", Row{"code": "688981"})
	require.NoError(t, err)
	assert.Equal(t, functions.BoardSHMain, v)
}

func TestAggregate(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(WithDiscardLog(), WithRegisterer(reg), WithPartitions(3), WithReducers(2))
	require.NoError(t, err)
	defer h.Close()

	results, err := h.Aggregate(context.Background(), Job{
		Function: "string_length_sum",
		Argument: "name",
		GroupBy:  []string{"stock_board(code)"},
	}, stockRows)
	require.NoError(t, err)

	got := make(map[interface{}]int64)
	for _, r := range results {
		require.Len(t, r.Values, 1)
		got[r.Values[0]] = r.Sum
	}
	assert.Equal(t, map[interface{}]int64{
		functions.BoardSHMain:        8,
		functions.BoardSZSmallMedium: 4,
		functions.BoardSZGrowth:      4,
		functions.CodeError:          7,
	}, got)

	assert.Equal(t, int64(len(stockRows)), h.GetStats().Rows)
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestAggregateNullReject(t *testing.T) {
	h, err := New(WithDiscardLog(), WithNullPolicy(types.NullReject))
	require.NoError(t, err)
	defer h.Close()

	_, err = h.Aggregate(context.Background(), Job{Function: "string_length_sum", Argument: "name"}, stockRows)
	assert.ErrorIs(t, err, aggregator.ErrNullElement)
}

func TestResolve(t *testing.T) {
	h, err := New(WithDiscardLog())
	require.NoError(t, err)
	defer h.Close()

	eval, err := h.Resolve("string_length_sum", []types.TypeInfo{types.Varchar(20)})
	require.NoError(t, err)
	_, err = eval.Init(aggregator.COMPLETE, []types.TypeInfo{types.Varchar(20)})
	require.NoError(t, err)

	_, err = h.Resolve("string_length_sum", []types.TypeInfo{types.String, types.String})
	var countErr *aggregator.ArgumentCountError
	assert.ErrorAs(t, err, &countErr)
}

func TestClose(t *testing.T) {
	h, err := New(WithDiscardLog())
	require.NoError(t, err)
	h.Close()
	h.Close()
	_, err = h.Aggregate(context.Background(), Job{Function: "string_length_sum", Argument: "name"}, nil)
	assert.Error(t, err)
}
