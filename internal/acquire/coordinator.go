// Package acquire drives names through search, extraction and merge.
package acquire

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MananiDennis/alumniSystem/internal/extract"
	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/search"
)

// Searcher is the search orchestration surface the coordinator drives.
type Searcher interface {
	Search(ctx context.Context, req search.Request) ([]model.CandidateSnippet, error)
	// ResetAvailability clears per-run provider state before a batch.
	ResetAvailability()
}

// Extractor turns snippets into a candidate profile.
type Extractor interface {
	Extract(ctx context.Context, name, locationHint string, snippets []model.CandidateSnippet) (*model.AlumniProfile, error)
}

// Reconciler folds a candidate into persistent storage, keyed on the
// name the acquisition ran for.
type Reconciler interface {
	Reconcile(ctx context.Context, name string, candidate *model.AlumniProfile) (*model.AlumniProfile, bool, error)
}

// Config tunes batch execution.
type Config struct {
	// Concurrency bounds simultaneous in-flight names.
	Concurrency int
	// NameBudget is the wall-clock allowance for a single name.
	NameBudget time.Duration
}

// DefaultConfig returns conservative production settings.
func DefaultConfig() Config {
	return Config{
		Concurrency: 3,
		NameBudget:  2 * time.Minute,
	}
}

// Coordinator runs the acquisition state machine for each requested name.
// Failures are isolated: one name's rejection never aborts the rest of
// the batch.
type Coordinator struct {
	cfg        Config
	searcher   Searcher
	extractor  Extractor
	reconciler Reconciler
	tasks      TaskStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	now   func() time.Time
}

// New builds a Coordinator. tasks may be nil, in which case an in-memory
// store is used.
func New(cfg Config, searcher Searcher, extractor Extractor, reconciler Reconciler, tasks TaskStore) *Coordinator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.NameBudget <= 0 {
		cfg.NameBudget = DefaultConfig().NameBudget
	}
	if tasks == nil {
		tasks = NewMemoryTaskStore()
	}
	return &Coordinator{
		cfg:        cfg,
		searcher:   searcher,
		extractor:  extractor,
		reconciler: reconciler,
		tasks:      tasks,
		locks:      make(map[string]*sync.Mutex),
		now:        time.Now,
	}
}

// Tasks exposes the task store for status endpoints.
func (c *Coordinator) Tasks() TaskStore {
	return c.tasks
}

// AcquireBatch runs the pipeline for every request with bounded
// concurrency. The returned result partitions the inputs into accepted
// profiles and per-name failures; the error is non-nil only when the
// whole batch was cut short by ctx.
func (c *Coordinator) AcquireBatch(ctx context.Context, reqs []search.Request) (*model.BatchResult, error) {
	c.searcher.ResetAvailability()

	log := zap.L().With(zap.Int("names", len(reqs)))
	log.Info("acquire: starting batch")
	start := c.now()

	var (
		mu     sync.Mutex
		result model.BatchResult
	)

	g := &errgroup.Group{}
	g.SetLimit(c.cfg.Concurrency)
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				result.Failed = append(result.Failed, model.Failure{
					Name:   req.Name,
					Reason: model.RejectionReason{Code: model.RejectUnexpectedError, Detail: err.Error()},
				})
				mu.Unlock()
				return nil
			}

			profile, rejection := c.acquireOne(ctx, req)

			mu.Lock()
			defer mu.Unlock()
			if rejection != nil {
				result.Failed = append(result.Failed, model.Failure{Name: req.Name, Reason: *rejection})
			} else {
				result.Accepted = append(result.Accepted, *profile)
			}
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	log.Info("acquire: batch finished",
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("elapsed", c.now().Sub(start)))
	return &result, ctx.Err()
}

// Acquire runs the pipeline for a single name.
func (c *Coordinator) Acquire(ctx context.Context, req search.Request) (*model.AlumniProfile, *model.RejectionReason, error) {
	profile, rejection := c.acquireOne(ctx, req)
	if rejection != nil {
		return nil, rejection, nil
	}
	return profile, nil, nil
}

// acquireOne walks one name through the state machine under its per-name
// lock and wall-clock budget.
func (c *Coordinator) acquireOne(parent context.Context, req search.Request) (*model.AlumniProfile, *model.RejectionReason) {
	lock := c.nameLock(req.Name)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(parent, c.cfg.NameBudget)
	defer cancel()

	log := zap.L().With(zap.String("name", req.Name))
	task := Task{Name: req.Name, State: model.StatePending, StartedAt: c.now()}
	c.tasks.Put(task)

	fail := func(code model.RejectionCode, detail string) (*model.AlumniProfile, *model.RejectionReason) {
		reason := &model.RejectionReason{Code: code, Detail: detail}
		task.State = model.StateRejected
		task.Rejection = reason
		task.FinishedAt = c.now()
		c.tasks.Put(task)
		log.Info("acquire: rejected", zap.String("reason", reason.String()))
		return nil, reason
	}

	task.State = model.StateSearching
	c.tasks.Put(task)
	snippets, err := c.searcher.Search(ctx, req)
	if err != nil {
		return fail(model.RejectUnexpectedError, describeErr(ctx, err))
	}
	if len(snippets) == 0 {
		return fail(model.RejectNoSearchResults, "")
	}

	task.State = model.StateExtracting
	c.tasks.Put(task)
	candidate, err := c.extractor.Extract(ctx, req.Name, req.Region, snippets)
	switch {
	case err == nil:
	case eris.Is(err, extract.ErrNoCandidate):
		return fail(model.RejectExtractionEmpty, "")
	case eris.Is(err, extract.ErrBelowThreshold):
		return fail(model.RejectBelowThreshold, "")
	default:
		return fail(model.RejectUnexpectedError, describeErr(ctx, err))
	}

	task.State = model.StateMerging
	c.tasks.Put(task)
	merged, created, err := c.reconciler.Reconcile(ctx, req.Name, candidate)
	if err != nil {
		return fail(model.RejectUnexpectedError, describeErr(ctx, err))
	}

	task.State = model.StateAccepted
	task.ProfileID = merged.ID
	task.FinishedAt = c.now()
	c.tasks.Put(task)
	log.Info("acquire: accepted",
		zap.String("profile_id", merged.ID),
		zap.Bool("created", created),
		zap.Float64("confidence", merged.ConfidenceScore))
	return merged, nil
}

// nameLock returns the mutex serializing work on a given name, so two
// concurrent requests for the same person cannot interleave merges.
func (c *Coordinator) nameLock(name string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := taskKey(name)
	if l, ok := c.locks[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	c.locks[key] = l
	return l
}

func describeErr(ctx context.Context, err error) string {
	if eris.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
