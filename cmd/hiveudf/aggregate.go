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


package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rulego/hiveudf"
	"github.com/rulego/hiveudf/types"
	"github.com/rulego/hiveudf/utils/table"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// lines longer than this are rejected
const maxLineSize = 16 << 20

type aggregateFlags struct {
	input      string
	function   string
	arg        string
	argType    string
	groupBy    []string
	configFile string
	partitions int
	reducers   int
	fanIn      int
	workers    int
	nullPolicy string
	format     string
}

func newAggregateCmd() *cobra.Command {
	f := &aggregateFlags{}
	aggregateCmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate JSON lines, printing one JSON line per group",
		Example: `  hiveudf aggregate --input stocks.jsonl --arg name --group-by 'stock_board(code)'
  cat stocks.jsonl | hiveudf aggregate --arg name --partitions 8 --reducers 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAggregate(cmd, f)
		},
	}
	flags := aggregateCmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "-", "JSON lines file, - for stdin")
	flags.StringVar(&f.function, "function", "string_length_sum", "aggregate function")
	flags.StringVar(&f.arg, "arg", "", "argument expression, e.g. name")
	flags.StringVar(&f.argType, "arg-type", "string", "declared argument type")
	flags.StringArrayVar(&f.groupBy, "group-by", nil, "grouping expression, repeatable")
	flags.StringVarP(&f.configFile, "config", "c", "", "YAML config file")
	flags.IntVar(&f.partitions, "partitions", 0, "map splits, overrides the config")
	flags.IntVar(&f.reducers, "reducers", 0, "reduce tasks, overrides the config")
	flags.IntVar(&f.fanIn, "fan-in", -1, "map outputs per combine task, 0 disables combining")
	flags.IntVar(&f.workers, "workers", 0, "concurrent tasks, overrides the config")
	flags.StringVar(&f.nullPolicy, "null-policy", "", "zero or reject, overrides the config")
	flags.StringVarP(&f.format, "format", "o", "json", "output format: json or table")
	_ = aggregateCmd.MarkFlagRequired("arg")
	return aggregateCmd
}

func (f *aggregateFlags) options() ([]hiveudf.Option, error) {
	cfg := types.DefaultConfig()
	if f.configFile != "" {
		var err error
		if cfg, err = types.LoadConfig(f.configFile); err != nil {
			return nil, err
		}
	}
	// the --log-level flag owns the logger
	cfg.LogLevel = ""
	opts := []hiveudf.Option{hiveudf.WithConfig(cfg)}
	if f.partitions > 0 {
		opts = append(opts, hiveudf.WithPartitions(f.partitions))
	}
	if f.reducers > 0 {
		opts = append(opts, hiveudf.WithReducers(f.reducers))
	}
	if f.fanIn >= 0 {
		opts = append(opts, hiveudf.WithCombineFanIn(f.fanIn))
	}
	if f.workers > 0 {
		opts = append(opts, hiveudf.WithWorkers(f.workers))
	}
	if f.nullPolicy != "" {
		opts = append(opts, hiveudf.WithNullPolicy(types.NullPolicy(f.nullPolicy)))
	}
	return opts, nil
}

func runAggregate(cmd *cobra.Command, f *aggregateFlags) error {
	if f.format != "json" && f.format != "table" {
		return errors.Errorf("unknown output format %q", f.format)
	}
	argType, err := types.ParseTypeName(f.argType)
	if err != nil {
		return err
	}
	opts, err := f.options()
	if err != nil {
		return err
	}
	h, err := hiveudf.New(opts...)
	if err != nil {
		return err
	}
	defer h.Close()

	in := cmd.InOrStdin()
	if f.input != "-" {
		file, err := os.Open(f.input)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer file.Close()
		in = file
	}
	rows, err := readRows(in)
	if err != nil {
		return err
	}

	results, err := h.Aggregate(cmd.Context(), hiveudf.Job{
		Function: f.function,
		ArgTypes: []types.TypeInfo{argType},
		Argument: f.arg,
		GroupBy:  f.groupBy,
	}, rows)
	if err != nil {
		return err
	}
	if f.format == "table" {
		printTable(cmd.OutOrStdout(), f, results)
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "write result")
		}
	}
	return nil
}

// printTable prints one column per grouping expression plus the aggregate.
func printTable(w io.Writer, f *aggregateFlags, results []hiveudf.GroupResult) {
	aggColumn := fmt.Sprintf("%s(%s)", f.function, f.arg)
	order := append(append([]string{}, f.groupBy...), aggColumn)
	data := make([]map[string]interface{}, len(results))
	for i, r := range results {
		row := map[string]interface{}{aggColumn: r.Sum}
		for j, expr := range f.groupBy {
			if j < len(r.Values) {
				row[expr] = r.Values[j]
			}
		}
		data[i] = row
	}
	table.Print(w, data, order)
}

// readRows decodes one JSON object per non-empty line.
func readRows(r io.Reader) ([]hiveudf.Row, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var rows []hiveudf.Row
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}
		row := hiveudf.Row{}
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return rows, nil
}
