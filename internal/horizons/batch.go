package horizons

import (
	"context"
	"sync"
	"time"
)

// Result is the outcome for one designation in a batch fetch. Exactly one of
// State/Err is meaningful; the designation is always set, so callers can
// never misalign particles and state vectors.
type Result struct {
	Designation string
	State       StateVector
	Err         error
}

// FetchAll resolves every designation at the given epoch with bounded
// concurrency. The returned slice is index-aligned with designations and has
// one entry per input, success or not. Callers decide the all-or-none
// policy.
func (c *Client) FetchAll(ctx context.Context, designations []string, epoch time.Time) []Result {
	results := make([]Result, len(designations))

	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i, des := range designations {
		wg.Add(1)
		go func(i int, des string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			sv, err := c.StateVector(ctx, des, epoch)
			results[i] = Result{Designation: des, State: sv, Err: err}

			if c.Progress != nil {
				mu.Lock()
				done++
				c.Progress(done, len(designations))
				mu.Unlock()
			}
		}(i, des)
	}
	wg.Wait()

	return results
}

// Failed returns the designations whose fetch failed, in input order.
func Failed(results []Result) []string {
	var out []string
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r.Designation)
		}
	}
	return out
}
