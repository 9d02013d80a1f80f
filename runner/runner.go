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
	"hash/fnv"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/rulego/hiveudf/aggregator"
	"github.com/rulego/hiveudf/functions"
	"github.com/rulego/hiveudf/logger"
	"github.com/rulego/hiveudf/types"
)

// rows between two context checks inside a task
const ctxCheckInterval = 256

// Row is one input record.
type Row = map[string]interface{}

// Job describes `SELECT group_by..., function(argument) FROM rows GROUP BY group_by...`.
type Job struct {
	// Function is a registered aggregate name
	Function string
	// ArgTypes are the declared argument types, string when empty
	ArgTypes []types.TypeInfo
	// Argument is the expression producing the aggregate input
	Argument string
	// GroupBy are grouping expressions, none means one global group
	GroupBy []string
}

// GroupResult is the aggregate value of one group.
type GroupResult struct {
	Key    string        `json:"key"`
	Values []interface{} `json:"values"`
	Sum    int64         `json:"sum"`
}

// Runner executes aggregate jobs in-process, splitting them into the same
// phases a cluster would use.
type Runner struct {
	cfg     types.Config
	pool    *ants.Pool
	log     logger.Logger
	metrics *Metrics
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger, the default logger otherwise.
func WithLogger(log logger.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithMetrics shares a Metrics instance, e.g. one registered with prometheus.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// New creates a runner. Close releases its worker pool.
func New(cfg types.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid runner config")
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	r := &Runner{cfg: cfg, pool: pool}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.GetDefault()
	}
	r.log = r.log.Named("runner")
	if r.metrics == nil {
		r.metrics = NewMetrics(nil)
	}
	return r, nil
}

// Config returns the configuration the runner was built with.
func (r *Runner) Config() types.Config {
	return r.cfg
}

// Metrics returns the runner's counters.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Close releases the worker pool.
func (r *Runner) Close() {
	r.pool.Release()
}

// plan is a compiled Job.
type plan struct {
	job      Job
	argTypes []types.TypeInfo
	policy   types.NullPolicy
	arg      *functions.Expression
	groupBy  []*functions.Expression
}

func (r *Runner) compile(job Job) (*plan, error) {
	if job.Function == "" {
		return nil, errors.New("job has no aggregate function")
	}
	argTypes := job.ArgTypes
	if len(argTypes) == 0 {
		argTypes = []types.TypeInfo{types.String}
	}
	// resolve once up front so type errors surface before any task runs
	if _, err := aggregator.ResolveWithPolicy(job.Function, argTypes, r.cfg.NullPolicy); err != nil {
		return nil, err
	}
	arg, err := functions.CompileExpression(job.Argument)
	if err != nil {
		return nil, errors.WithMessage(err, "argument")
	}
	p := &plan{job: job, argTypes: argTypes, policy: r.cfg.NullPolicy, arg: arg}
	for _, src := range job.GroupBy {
		e, err := functions.CompileExpression(src)
		if err != nil {
			return nil, errors.WithMessage(err, "group by")
		}
		p.groupBy = append(p.groupBy, e)
	}
	return p, nil
}

// evaluator returns a fresh evaluator initialized for mode.
func (p *plan) evaluator(mode aggregator.Mode) (aggregator.Evaluator, error) {
	eval, err := aggregator.ResolveWithPolicy(p.job.Function, p.argTypes, p.policy)
	if err != nil {
		return nil, err
	}
	params := p.argTypes
	if mode.ConsumesPartial() {
		params = []types.TypeInfo{types.Long}
	}
	if _, err := eval.Init(mode, params); err != nil {
		return nil, err
	}
	return eval, nil
}

func (p *plan) groupKey(row Row) (string, []interface{}, error) {
	if len(p.groupBy) == 0 {
		return "", nil, nil
	}
	values := make([]interface{}, len(p.groupBy))
	parts := make([]string, len(p.groupBy))
	for i, e := range p.groupBy {
		v, err := e.Evaluate(row)
		if err != nil {
			return "", nil, err
		}
		values[i] = v
		parts[i] = fmt.Sprintf("%#v", v)
	}
	return strings.Join(parts, ","), values, nil
}

// record is what a task emits for one group.
type record struct {
	values  []interface{}
	partial []byte
}

// taskOutput maps group keys to a task's partial results.
type taskOutput map[string]record

type group struct {
	values []interface{}
	buf    *aggregator.Buffer
}

// Run executes job over rows and returns one result per group, sorted by key.
func (r *Runner) Run(ctx context.Context, job Job, rows []Row) ([]GroupResult, error) {
	start := time.Now()
	p, err := r.compile(job)
	if err != nil {
		return nil, err
	}

	var results []GroupResult
	if r.cfg.Partitions <= 1 && r.cfg.Reducers <= 1 {
		results, err = r.runComplete(ctx, p, rows)
	} else {
		results, err = r.runStaged(ctx, p, rows)
	}
	if err != nil {
		r.log.Error("job %s(%s) failed: %v", job.Function, job.Argument, err)
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Key < results[j].Key })
	r.log.Info("job %s(%s) finished: %d rows, %d groups in %s",
		job.Function, job.Argument, len(rows), len(results), time.Since(start))
	return results, nil
}

func (r *Runner) runComplete(ctx context.Context, p *plan, rows []Row) ([]GroupResult, error) {
	var results []GroupResult
	err := r.runTasks(ctx, PhaseComplete, 1, func(int) error {
		eval, err := p.evaluator(aggregator.COMPLETE)
		if err != nil {
			return err
		}
		groups, err := r.iterate(ctx, p, eval, rows)
		if err != nil {
			return err
		}
		for key, g := range groups {
			sum, err := eval.Terminate(g.buf)
			if err != nil {
				return err
			}
			results = append(results, GroupResult{Key: key, Values: g.values, Sum: sum})
		}
		return nil
	})
	return results, err
}

func (r *Runner) runStaged(ctx context.Context, p *plan, rows []Row) ([]GroupResult, error) {
	splits := split(rows, r.cfg.Partitions)
	outputs := make([]taskOutput, len(splits))
	err := r.runTasks(ctx, PhaseMap, len(splits), func(i int) error {
		out, err := r.mapTask(ctx, p, splits[i])
		outputs[i] = out
		return err
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug("map phase: %d tasks", len(outputs))

	for level := 1; r.cfg.CombineFanIn >= 2 && len(outputs) > r.cfg.CombineFanIn; level++ {
		if outputs, err = r.combine(ctx, p, outputs); err != nil {
			return nil, errors.WithMessagef(err, "combine level %d", level)
		}
		r.log.Debug("combine level %d: %d outputs", level, len(outputs))
	}
	return r.reduce(ctx, p, outputs)
}

// iterate feeds rows into one buffer per group.
func (r *Runner) iterate(ctx context.Context, p *plan, eval aggregator.Evaluator, rows []Row) (map[string]*group, error) {
	groups := make(map[string]*group)
	if len(p.groupBy) == 0 {
		// a global aggregate has exactly one group even with no rows
		buf, err := eval.NewBuffer()
		if err != nil {
			return nil, err
		}
		groups[""] = &group{buf: buf}
	}
	for i, row := range rows {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		key, values, err := p.groupKey(row)
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d", i)
		}
		g, ok := groups[key]
		if !ok {
			buf, err := eval.NewBuffer()
			if err != nil {
				return nil, err
			}
			g = &group{values: values, buf: buf}
			groups[key] = g
		}
		arg, err := p.arg.Evaluate(row)
		if err != nil {
			return nil, errors.WithMessagef(err, "row %d", i)
		}
		if err := eval.Iterate(g.buf, []interface{}{arg}); err != nil {
			return nil, errors.WithMessagef(err, "row %d", i)
		}
		r.metrics.incRows()
	}
	return groups, nil
}

// emit turns every group buffer into an encoded partial result.
func emit(eval aggregator.Evaluator, groups map[string]*group) (taskOutput, error) {
	out := make(taskOutput, len(groups))
	for key, g := range groups {
		pr, err := eval.TerminatePartial(g.buf)
		if err != nil {
			return nil, err
		}
		data, err := aggregator.EncodePartial(pr)
		if err != nil {
			return nil, errors.Wrap(err, "encode partial")
		}
		out[key] = record{values: g.values, partial: data}
	}
	return out, nil
}

func (r *Runner) mapTask(ctx context.Context, p *plan, rows []Row) (taskOutput, error) {
	eval, err := p.evaluator(aggregator.PARTIAL1)
	if err != nil {
		return nil, err
	}
	groups, err := r.iterate(ctx, p, eval, rows)
	if err != nil {
		return nil, err
	}
	out, err := emit(eval, groups)
	if err != nil {
		return nil, err
	}
	r.metrics.addPartials(PhaseMap, len(out))
	return out, nil
}

// mergeInto folds a task output into per-group buffers.
func mergeInto(eval aggregator.Evaluator, groups map[string]*group, in taskOutput) error {
	for key, rec := range in {
		g, ok := groups[key]
		if !ok {
			buf, err := eval.NewBuffer()
			if err != nil {
				return err
			}
			g = &group{values: rec.values, buf: buf}
			groups[key] = g
		}
		if err := eval.Merge(g.buf, rec.partial); err != nil {
			return errors.WithMessagef(err, "group %s", key)
		}
	}
	return nil
}

// combine merges batches of CombineFanIn outputs with PARTIAL2 evaluators.
func (r *Runner) combine(ctx context.Context, p *plan, outputs []taskOutput) ([]taskOutput, error) {
	fanIn := r.cfg.CombineFanIn
	batches := (len(outputs) + fanIn - 1) / fanIn
	next := make([]taskOutput, batches)
	err := r.runTasks(ctx, PhaseCombine, batches, func(i int) error {
		eval, err := p.evaluator(aggregator.PARTIAL2)
		if err != nil {
			return err
		}
		groups := make(map[string]*group)
		for _, in := range outputs[i*fanIn : min((i+1)*fanIn, len(outputs))] {
			if err := mergeInto(eval, groups, in); err != nil {
				return err
			}
		}
		out, err := emit(eval, groups)
		if err != nil {
			return err
		}
		r.metrics.addPartials(PhaseCombine, len(out))
		next[i] = out
		return nil
	})
	return next, err
}

// reduce shuffles partials by group key across Reducers FINAL tasks.
func (r *Runner) reduce(ctx context.Context, p *plan, outputs []taskOutput) ([]GroupResult, error) {
	reducers := r.cfg.Reducers
	inputs := make([][]taskOutput, reducers)
	for _, out := range outputs {
		shards := make([]taskOutput, reducers)
		for key, rec := range out {
			idx := shard(key, reducers)
			if shards[idx] == nil {
				shards[idx] = make(taskOutput)
			}
			shards[idx][key] = rec
		}
		for idx, s := range shards {
			if s != nil {
				inputs[idx] = append(inputs[idx], s)
			}
		}
	}

	var (
		mu      sync.Mutex
		results []GroupResult
	)
	err := r.runTasks(ctx, PhaseReduce, reducers, func(i int) error {
		eval, err := p.evaluator(aggregator.FINAL)
		if err != nil {
			return err
		}
		groups := make(map[string]*group)
		for _, in := range inputs[i] {
			if err := mergeInto(eval, groups, in); err != nil {
				return err
			}
		}
		local := make([]GroupResult, 0, len(groups))
		for key, g := range groups {
			sum, err := eval.Terminate(g.buf)
			if err != nil {
				return err
			}
			local = append(local, GroupResult{Key: key, Values: g.values, Sum: sum})
		}
		mu.Lock()
		results = append(results, local...)
		mu.Unlock()
		return nil
	})
	return results, err
}

// runTasks runs n tasks on the pool and waits for all of them.
func (r *Runner) runTasks(ctx context.Context, phase string, n int, task func(i int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	fail := func(err error) {
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
	}
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			if err := task(i); err != nil {
				fail(errors.WithMessagef(err, "%s task %d", phase, i))
				return
			}
			r.metrics.incTasks(phase)
		})
		if err != nil {
			wg.Done()
			fail(errors.Wrapf(err, "submit %s task %d", phase, i))
		}
	}
	wg.Wait()
	return errs
}

// split cuts rows into n contiguous, possibly empty, slices.
func split(rows []Row, n int) [][]Row {
	if n < 1 {
		n = 1
	}
	size := (len(rows) + n - 1) / n
	out := make([][]Row, n)
	for i := range out {
		lo := min(i*size, len(rows))
		hi := min(lo+size, len(rows))
		out[i] = rows[lo:hi]
	}
	return out
}

func shard(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
