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


package types

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// NullPolicy decides how an aggregate treats a NULL input element.
type NullPolicy string

const (
	// NullAsZero counts a NULL element as a zero-length contribution
	NullAsZero NullPolicy = "zero"
	// NullReject fails the task on a NULL element
	NullReject NullPolicy = "reject"
)

// Config 本地执行配置
type Config struct {
	// Partitions is the number of map splits the input is cut into
	Partitions int `json:"partitions" yaml:"partitions"`
	// Reducers is the number of FINAL tasks group keys are shuffled across
	Reducers int `json:"reducers" yaml:"reducers"`
	// CombineFanIn is how many map outputs one PARTIAL2 task merges, 0 disables combining
	CombineFanIn int `json:"combineFanIn" yaml:"combineFanIn"`
	// Workers bounds the number of tasks running at once
	Workers int `json:"workers" yaml:"workers"`
	// NullPolicy applies to NULL aggregate inputs
	NullPolicy NullPolicy `json:"nullPolicy" yaml:"nullPolicy"`
	// LogLevel is one of debug, info, warn, error, off
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// DefaultConfig 创建默认配置
func DefaultConfig() Config {
	return Config{
		Partitions:   4,
		Reducers:     2,
		CombineFanIn: 2,
		Workers:      8,
		NullPolicy:   NullAsZero,
		LogLevel:     "info",
	}
}

// ParseConfig decodes a YAML document on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return cfg, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var err error
	if c.Partitions < 1 {
		err = multierr.Append(err, fmt.Errorf("partitions must be at least 1, got %d", c.Partitions))
	}
	if c.Reducers < 1 {
		err = multierr.Append(err, fmt.Errorf("reducers must be at least 1, got %d", c.Reducers))
	}
	if c.CombineFanIn < 0 || c.CombineFanIn == 1 {
		err = multierr.Append(err, fmt.Errorf("combineFanIn must be 0 or at least 2, got %d", c.CombineFanIn))
	}
	if c.Workers < 1 {
		err = multierr.Append(err, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	switch c.NullPolicy {
	case NullAsZero, NullReject:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown null policy %q", c.NullPolicy))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error", "off":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return err
}
