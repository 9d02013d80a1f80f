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
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rulego/hiveudf/logger"
	"github.com/rulego/hiveudf/types"
)

// Option 表示对HiveUDF默认行为的修改配置。
type Option func(*HiveUDF)

// WithLogger 设置自定义日志记录器，并作为全局默认日志记录器。
//
// 示例:
//
//	customLogger := logger.NewLogger(logger.DEBUG, os.Stderr)
//	h, err := hiveudf.New(hiveudf.WithLogger(customLogger))
func WithLogger(log logger.Logger) Option {
	return func(h *HiveUDF) {
		logger.SetDefault(log)
		h.log = log
	}
}

// WithLogLevel 设置日志级别
func WithLogLevel(level logger.Level) Option {
	return func(h *HiveUDF) {
		h.cfg.LogLevel = strings.ToLower(level.String())
		h.levelSet = true
	}
}

// WithDiscardLog 禁用日志输出
func WithDiscardLog() Option {
	return func(h *HiveUDF) {
		WithLogger(logger.NewDiscardLogger())(h)
	}
}

// WithConfig 替换整个执行配置，后续选项仍可覆盖其中的字段。
// 配置中的 LogLevel 会应用到默认日志记录器。
//
// 示例:
//
//	cfg, err := types.LoadConfig("hiveudf.yaml")
//	h, err := hiveudf.New(hiveudf.WithConfig(cfg), hiveudf.WithWorkers(4))
func WithConfig(cfg types.Config) Option {
	return func(h *HiveUDF) {
		h.cfg = cfg
		h.levelSet = cfg.LogLevel != ""
	}
}

// WithPartitions 设置 map 分片数。分片数与 reducer 数都为 1 时只运行一个 COMPLETE 任务。
func WithPartitions(n int) Option {
	return func(h *HiveUDF) {
		h.cfg.Partitions = n
	}
}

// WithReducers 设置 FINAL 任务数
func WithReducers(n int) Option {
	return func(h *HiveUDF) {
		h.cfg.Reducers = n
	}
}

// WithCombineFanIn 设置每个 PARTIAL2 任务合并的 map 输出数，0 表示不做 combine
func WithCombineFanIn(n int) Option {
	return func(h *HiveUDF) {
		h.cfg.CombineFanIn = n
	}
}

// WithWorkers 设置同时运行的任务上限
func WithWorkers(n int) Option {
	return func(h *HiveUDF) {
		h.cfg.Workers = n
	}
}

// WithNullPolicy 设置聚合函数对 NULL 输入的处理方式
func WithNullPolicy(policy types.NullPolicy) Option {
	return func(h *HiveUDF) {
		h.cfg.NullPolicy = policy
	}
}

// WithRegisterer 把执行指标注册到 prometheus
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(h *HiveUDF) {
		h.registerer = reg
	}
}
