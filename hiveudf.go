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

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rulego/hiveudf/aggregator"
	"github.com/rulego/hiveudf/functions"
	"github.com/rulego/hiveudf/logger"
	"github.com/rulego/hiveudf/runner"
	"github.com/rulego/hiveudf/types"
)

// Row is one input record.
type Row = runner.Row

// Job describes one aggregate query, see runner.Job.
type Job = runner.Job

// GroupResult is the aggregate value of one group.
type GroupResult = runner.GroupResult

// HiveUDF 把股票代码分类函数和聚合函数组合成一个可直接使用的入口。
//
// 使用示例:
//
//	h, err := hiveudf.New(hiveudf.WithPartitions(4), hiveudf.WithReducers(2))
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//	results, err := h.Aggregate(ctx, hiveudf.Job{
//		Function: "string_length_sum",
//		Argument: "name",
//		GroupBy:  []string{"stock_board(code)"},
//	}, rows)
type HiveUDF struct {
	cfg        types.Config
	levelSet   bool
	log        logger.Logger
	registerer prometheus.Registerer
	metrics    *runner.Metrics
	runner     *runner.Runner
}

// New 创建一个新的HiveUDF实例，选项按顺序应用。
func New(options ...Option) (*HiveUDF, error) {
	h := &HiveUDF{cfg: types.DefaultConfig()}
	for _, option := range options {
		option(h)
	}
	if h.log == nil {
		h.log = logger.GetDefault()
	}
	if h.levelSet {
		level, err := logger.ParseLevel(h.cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		h.log.SetLevel(level)
	}

	h.metrics = runner.NewMetrics(h.registerer)
	r, err := runner.New(h.cfg, runner.WithLogger(h.log), runner.WithMetrics(h.metrics))
	if err != nil {
		return nil, err
	}
	h.runner = r
	return h, nil
}

// Config returns the effective configuration.
func (h *HiveUDF) Config() types.Config {
	return h.cfg
}

// Classify returns the market segment label of a stock code.
func (h *HiveUDF) Classify(code string) string {
	return functions.Classify(code)
}

// Evaluate evaluates a scalar expression such as `stock_board(code)` over one row.
func (h *HiveUDF) Evaluate(expression string, row Row) (interface{}, error) {
	return functions.EvaluateExpression(expression, row)
}

// Aggregate runs job over rows and returns one result per group, sorted by key.
func (h *HiveUDF) Aggregate(ctx context.Context, job Job, rows []Row) ([]GroupResult, error) {
	if h.runner == nil {
		return nil, errors.New("hiveudf is closed")
	}
	return h.runner.Run(ctx, job, rows)
}

// Resolve resolves a registered aggregate for argTypes using the configured NULL policy.
func (h *HiveUDF) Resolve(name string, argTypes []types.TypeInfo) (aggregator.Evaluator, error) {
	return aggregator.ResolveWithPolicy(name, argTypes, h.cfg.NullPolicy)
}

// GetStats returns the runner counters accumulated so far.
func (h *HiveUDF) GetStats() runner.Stats {
	return h.metrics.Stats()
}

// Close releases the worker pool. The instance cannot aggregate afterwards.
func (h *HiveUDF) Close() {
	if h.runner != nil {
		h.runner.Close()
		h.runner = nil
	}
}
