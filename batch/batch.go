// Package batch runs a scrape across a list of entities against one
// shared browser session. Entities are strictly sequential, since a single
// tab cannot serve concurrent navigations, and each entity's failure is
// isolated, except for session-level faults which end the batch.
package batch

import (
	"context"
	"errors"

	"business-scraper/scrape"
	"business-scraper/utils"
)

// Result is the outcome for one entity, in request order.
type Result[R any] struct {
	Entity  string
	Records []R
	Err     error
}

// Outcome aggregates the per-entity results. Results always has one entry
// per requested entity; after a session failure the remaining entities are
// marked failed rather than dropped.
type Outcome[R any] struct {
	Results    []Result[R]
	SessionErr error
}

// Failed reports how many entities ended in an error.
func (o Outcome[R]) Failed() int {
	n := 0
	for _, r := range o.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Empty reports whether no entity produced any records.
func (o Outcome[R]) Empty() bool {
	for _, r := range o.Results {
		if len(r.Records) > 0 {
			return false
		}
	}
	return true
}

// Run invokes fn for each entity in order. NotFound, navigation and other
// per-entity errors are recorded and the loop moves on; a SessionError
// stops the loop, failing the entities that never ran.
func Run[R any](ctx context.Context, log utils.Request, entities []string, fn func(ctx context.Context, entity string) ([]R, error)) Outcome[R] {
	out := Outcome[R]{Results: make([]Result[R], 0, len(entities))}

	for i, entity := range entities {
		if out.SessionErr != nil {
			out.Results = append(out.Results, Result[R]{Entity: entity, Err: out.SessionErr})
			continue
		}

		log.Info("Entity %d/%d: %q", i+1, len(entities), entity)
		records, err := fn(ctx, entity)
		if err != nil {
			var se *scrape.SessionError
			if errors.As(err, &se) {
				log.Error("Session lost on %q, failing the rest of the batch: %v", entity, err)
				out.SessionErr = err
			} else {
				log.Warn("Entity %q failed: %v", entity, err)
			}
			out.Results = append(out.Results, Result[R]{Entity: entity, Err: err})
			continue
		}

		log.Success("Entity %q: %d records", entity, len(records))
		out.Results = append(out.Results, Result[R]{Entity: entity, Records: records})
	}

	return out
}
