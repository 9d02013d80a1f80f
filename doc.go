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


/*
Package hiveudf 提供 Hive 风格的用户自定义函数及其本地执行环境。

它包含两个函数：

• stock_board(code) - 标量函数，按股票代码首字符返回所属板块
• string_length_sum(str) - 聚合函数，对字符串的字符数求和，支持 Hive 的
PARTIAL1 / PARTIAL2 / FINAL / COMPLETE 部分聚合协议

# 入门示例

	package main

	import (
		"context"
		"fmt"

		"github.com/rulego/hiveudf"
	)

	func main() {
		h, err := hiveudf.New(hiveudf.WithPartitions(4), hiveudf.WithReducers(2))
		if err != nil {
			panic(err)
		}
		defer h.Close()

		fmt.Println(h.Classify("600519")) // SH main board

		rows := []hiveudf.Row{
			{"code": "600519", "name": "贵州茅台"},
			{"code": "000001", "name": "平安银行"},
			{"code": "300750", "name": "宁德时代"},
			{"code": "601318", "name": "中国平安"},
		}
		results, err := h.Aggregate(context.Background(), hiveudf.Job{
			Function: "string_length_sum",
			Argument: "name",
			GroupBy:  []string{"stock_board(code)"},
		}, rows)
		if err != nil {
			panic(err)
		}
		for _, r := range results {
			fmt.Println(r.Values[0], r.Sum)
		}
	}

# 执行阶段

分片数与 reducer 数都为 1 时，聚合在一个 COMPLETE 任务中完成。否则：

	map      PARTIAL1  每个分片一个任务，按分组输出部分结果
	combine  PARTIAL2  每 CombineFanIn 个 map 输出合并为一个，0 表示关闭
	reduce   FINAL     按分组键哈希到 Reducers 个任务，输出最终结果

部分结果以 protobuf Int64Value 编码在任务间传递。任务运行在 ants 协程池上，
并发数由 Workers 限制。

# 配置

配置可以来自 YAML 文件：

	partitions: 8
	reducers: 2
	combineFanIn: 4
	workers: 16
	nullPolicy: reject
	logLevel: debug

	cfg, err := types.LoadConfig("hiveudf.yaml")
	h, err := hiveudf.New(hiveudf.WithConfig(cfg))

# 指标

WithRegisterer 把 hiveudf_runner_rows_total、hiveudf_runner_tasks_total 和
hiveudf_runner_partials_total 注册到 prometheus。
*/
package hiveudf
