package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thrushlang/thrushc-sub007/internal/compctx"
	"github.com/thrushlang/thrushc-sub007/internal/config"
	"github.com/thrushlang/thrushc-sub007/internal/frontend/ast"
)

// RunAll checks every module as its own unit, at most cfg.Jobs at a time.
// Each unit is created and owned by the goroutine that checks it; units
// share only read-only package tables. Results are in the order of modules.
//
// The returned error is non-nil only when ctx is done before every unit has
// been checked; diagnostics are never reported as errors.
func RunAll(ctx context.Context, cfg *config.Config, modules []*ast.Module) ([]*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	results := make([]*Result, len(modules))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}

	for i, mod := range modules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if mod == nil {
				return fmt.Errorf("module %d is nil", i)
			}
			results[i] = New(compctx.New(mod, cfg)).Run()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("checking modules: %w", err)
	}
	return results, nil
}
