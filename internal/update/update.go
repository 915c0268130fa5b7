// Package update re-drives stale profiles through acquisition.
package update

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/schedule"
	"github.com/MananiDennis/alumniSystem/internal/search"
)

// Reporter produces freshness reports.
type Reporter interface {
	Report(ctx context.Context) (*schedule.Report, error)
}

// Acquirer runs acquisition batches.
type Acquirer interface {
	AcquireBatch(ctx context.Context, reqs []search.Request) (*model.BatchResult, error)
}

// Service refreshes every profile due at a given urgency tier.
type Service struct {
	reporter Reporter
	acquirer Acquirer
}

func New(reporter Reporter, acquirer Acquirer) *Service {
	return &Service{reporter: reporter, acquirer: acquirer}
}

// Run refreshes all profiles in the given tier and every more urgent
// one. Returns the batch outcome, or a nil result when nothing is due.
func (s *Service) Run(ctx context.Context, tier schedule.Tier) (*model.BatchResult, error) {
	report, err := s.reporter.Report(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "update: report failed")
	}

	names := report.Due(tier)
	if len(names) == 0 {
		zap.L().Info("update: nothing due", zap.String("tier", string(tier)))
		return &model.BatchResult{}, nil
	}
	zap.L().Info("update: refreshing due profiles",
		zap.String("tier", string(tier)), zap.Int("names", len(names)))

	reqs := make([]search.Request, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, search.Request{Name: name})
	}
	return s.acquirer.AcquireBatch(ctx, reqs)
}
