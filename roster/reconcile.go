/*
reconcile.go - Roster reconciliation against the canonical list

PURPOSE:
  Resolves duplicate and off-list employee records before the grid is
  rendered. Runs once at server startup and on demand via the API.

STEPS (each tolerant of partial failure - log and continue):
  1. Remove employees whose normalized name is not on the canonical list.
     Removal cascades: every activity cell under the id goes with it
     (the sqlite store archives them to a shadow table first).
  2. Remove duplicate names; the first occurrence in roster order keeps
     its id, later duplicates are cascade-deleted.
  3. Re-fetch the roster.
  4. Create any canonical name still missing.
  5. Re-fetch so the in-memory roster matches the durable store exactly.

NORMALIZATION:
  Alternate spellings map through the Config alias table before any
  allow-list or duplicate comparison. The table is data, not code.

SEE ALSO:
  - config.go: The injectable canonical/alias configuration
  - types.go: The Store contract, including cascade Delete
*/
package roster

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Report summarizes one reconciliation run.
type Report struct {
	Removed           int      // off-list employees deleted
	DuplicatesRemoved int      // later duplicates deleted
	Created           int      // canonical names added
	CellsRemoved      int      // activity cells cascaded away
	Errors            []string // per-step failures, in order
}

// Reconciler runs the sync procedure against a Store.
type Reconciler struct {
	store Store
	cfg   Config
	newID func() string
}

func NewReconciler(store Store, cfg Config) *Reconciler {
	return &Reconciler{store: store, cfg: cfg, newID: uuid.NewString}
}

// Run executes the five steps. It only fails outright when the initial
// roster fetch fails; every later error is recorded in the report and
// the run continues.
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var report Report

	roster, err := r.store.List(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch roster: %w", err)
	}

	// Step 1: drop employees not on the canonical list.
	for _, emp := range roster {
		if r.cfg.Allowed(r.cfg.Normalize(emp.Name)) {
			continue
		}
		cells, err := r.store.DeleteEmployee(ctx, emp.ID)
		if err != nil {
			report.fail("remove %s: %v", emp.Name, err)
			continue
		}
		report.Removed++
		report.CellsRemoved += cells
	}

	// Step 2: drop duplicate names, first occurrence wins.
	seen := make(map[string]bool)
	for _, emp := range roster {
		name := r.cfg.Normalize(emp.Name)
		if !r.cfg.Allowed(name) {
			continue // already handled in step 1
		}
		if !seen[name] {
			seen[name] = true
			continue
		}
		cells, err := r.store.DeleteEmployee(ctx, emp.ID)
		if err != nil {
			report.fail("remove duplicate %s: %v", emp.Name, err)
			continue
		}
		report.DuplicatesRemoved++
		report.CellsRemoved += cells
	}

	// Step 3: re-fetch after removals.
	roster, err = r.store.List(ctx)
	if err != nil {
		report.fail("re-fetch roster: %v", err)
		roster = nil
	}

	// Step 4: create canonical names still missing.
	present := make(map[string]bool, len(roster))
	for _, emp := range roster {
		present[r.cfg.Normalize(emp.Name)] = true
	}
	for _, name := range r.cfg.Canonical {
		if present[name] {
			continue
		}
		emp := Employee{ID: r.newID(), Name: name}
		if err := r.store.Save(ctx, emp); err != nil {
			report.fail("create %s: %v", name, err)
			continue
		}
		report.Created++
	}

	// Step 5: final fetch keeps the durable store authoritative; the
	// caller reads the roster fresh rather than trusting this run's
	// intermediate view.
	if _, err := r.store.List(ctx); err != nil {
		report.fail("final fetch: %v", err)
	}

	return report, nil
}

func (r *Report) fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("roster reconcile: %s", msg)
	r.Errors = append(r.Errors, msg)
}
