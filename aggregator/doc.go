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
Package aggregator implements aggregate functions that run under the Hive
partial-aggregation protocol.

A query engine splits an aggregate across phases. Each phase creates an
Evaluator, binds it to a Mode with Init, and drives buffers through the
operations that mode allows:

	PARTIAL1  Iterate, TerminatePartial   (map side, raw rows in)
	PARTIAL2  Merge, TerminatePartial     (combiner, partials in and out)
	FINAL     Merge, Terminate            (reduce side)
	COMPLETE  Iterate, Terminate          (map-only plans)

Calling an operation outside its modes returns a *LifecycleError. Buffers
are per group and per task; tasks exchange PartialResult values, which can be
serialized with EncodePartial and DecodePartial.

# Resolution

Aggregates are looked up by name and resolved against the declared argument
types:

	eval, err := aggregator.Resolve("string_length_sum", []types.TypeInfo{types.String})
	if err != nil {
		// *ArgumentCountError or *ArgumentTypeError
	}
	out, err := eval.Init(aggregator.COMPLETE, []types.TypeInfo{types.String})
	buf, _ := eval.NewBuffer()
	_ = eval.Iterate(buf, []interface{}{"hello"})
	total, _ := eval.Terminate(buf) // 5

# Two-phase example

	mapEval, _ := aggregator.Resolve("string_length_sum", []types.TypeInfo{types.String})
	_, _ = mapEval.Init(aggregator.PARTIAL1, []types.TypeInfo{types.String})
	b1, _ := mapEval.NewBuffer()
	_ = mapEval.Iterate(b1, []interface{}{"abc"})
	p1, _ := mapEval.TerminatePartial(b1)

	reduceEval, _ := aggregator.Resolve("string_length_sum", []types.TypeInfo{types.String})
	_, _ = reduceEval.Init(aggregator.FINAL, []types.TypeInfo{types.Long})
	b2, _ := reduceEval.NewBuffer()
	_ = reduceEval.Merge(b2, p1)
	total, _ := reduceEval.Terminate(b2) // 3

Custom aggregates register a Resolver with Register.
*/
package aggregator
