package exercise

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/percona/percona-linked-lists/errors"
	"github.com/percona/percona-linked-lists/log"
	"github.com/percona/percona-linked-lists/metrics"
)

// Run executes the scenarios and returns their results in the given order.
//
// A failing scenario does not stop the others. The returned error joins the
// errors of all failed scenarios, or reports the cancellation of ctx.
func Run(ctx context.Context, scenarios []Scenario, opts Options) ([]Result, error) {
	opts = opts.withDefaults()

	lg := log.Ctx(ctx)
	lg.Debugf("running %d scenario(s), parallel %d", len(scenarios), opts.Parallel)

	results := make([]Result, len(scenarios))

	grp := errgroup.Group{}
	grp.SetLimit(opts.Parallel)

	for i, s := range scenarios {
		if ctx.Err() != nil {
			break
		}

		grp.Go(func() error {
			results[i] = runOne(ctx, s, opts)

			return nil
		})
	}

	_ = grp.Wait()

	if err := ctx.Err(); err != nil {
		return results, errors.Wrap(err, "run scenarios")
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, errors.Wrap(r.Err, r.FullName()))
		}
	}

	return results, errors.Join(errs...)
}

func runOne(ctx context.Context, s Scenario, opts Options) Result {
	lg := log.Ctx(ctx).With(log.Scenario(s.Group, s.Name))
	ctx = lg.WithContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	lg.Debug("started")

	startedAt := time.Now()
	nodes, err := s.Run(ctx, opts)
	elapsed := time.Since(startedAt)

	metrics.SetScenarioDuration(s.FullName(), elapsed)
	metrics.AddScenarioResult(err == nil)

	if err != nil {
		lg.With(log.Elapsed(elapsed)).Error(err, "failed")
	} else {
		lg.InfoWith("passed", log.Elapsed(elapsed), log.Int64("nodes", nodes))
	}

	return Result{
		Group:    s.Group,
		Name:     s.Name,
		Nodes:    nodes,
		Duration: elapsed,
		Err:      err,
	}
}
