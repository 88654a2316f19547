package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"

	"symgraph/internal/graphalg"
	"symgraph/internal/logging"
)

// PartialFeatures is the subset of node_features columns one step
// contributes, keyed by node hash. Fields a step doesn't touch are left at
// their zero value and simply not merged over by RunAll.
type PartialFeatures map[string]map[string]interface{}

// Step is one named, isolated feature-computation pass (§4.3, §9:
// "enrichment pipeline as composition... a step trait/interface").
type Step interface {
	Name() string
	Run(ctx context.Context, g *graphalg.Graph, meta *Metadata) (PartialFeatures, error)
}

// RunAll executes every step independently (they share only the read-only
// Graph/Metadata) and merges results. A step that returns an error is
// logged and contributes nothing -- its fields simply keep their zero
// values in the final record, matching §4.3's "isolated... failure
// produces zero/default values" and §4.3's non-convergence handling.
//
// Steps run concurrently via errgroup since none depends on another's
// output, only on the shared immutable graph view (§5: "no shared mutable
// state"; §9 enrichment composition).
func RunAll(ctx context.Context, g *graphalg.Graph, meta *Metadata, steps []Step, logger *logging.Logger) map[string]map[string]interface{} {
	type result struct {
		name    string
		partial PartialFeatures
		err     error
	}

	results := make([]result, len(steps))
	var wg errgroup.Group
	for i, st := range steps {
		i, st := i, st
		wg.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					results[i] = result{name: st.Name(), err: panicErr{r}}
				}
			}()
			partial, runErr := st.Run(ctx, g, meta)
			results[i] = result{name: st.Name(), partial: partial, err: runErr}
			return nil
		})
	}
	_ = wg.Wait()

	merged := make(map[string]map[string]interface{})
	for _, hash := range meta.Order {
		merged[hash] = make(map[string]interface{})
	}
	for _, r := range results {
		if r.err != nil {
			if logger != nil {
				logger.Warn("enrichment step failed, using defaults", map[string]interface{}{
					"step":  r.name,
					"error": r.err.Error(),
				})
			}
			continue
		}
		for hash, fields := range r.partial {
			dst, ok := merged[hash]
			if !ok {
				dst = make(map[string]interface{})
				merged[hash] = dst
			}
			for k, v := range fields {
				dst[k] = v
			}
		}
	}
	return merged
}

type panicErr struct{ v interface{} }

func (p panicErr) Error() string {
	return "panic in enrichment step"
}
