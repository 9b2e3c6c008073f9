package settings

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inovacc/gistvault/internal/model"
)

// Prober reports whether a gist can still be read.
type Prober interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Status is the probe result for one registered gist.
type Status struct {
	Ref    model.GistRef
	Exists bool
	Err    error
}

// Check probes every gist registered in the settings document. It only
// reports; entries for missing gists are left in place.
func (s *Service) Check(ctx context.Context, p Prober) ([]Status, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Status, len(current.Gists))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, ref := range current.Gists {
		g.Go(func() error {
			ok, err := p.Exists(ctx, ref.ID)
			results[i] = Status{Ref: ref, Exists: ok, Err: err}

			if err != nil {
				s.logger.Warn("probe failed", zap.String("gist", ref.ID), zap.Error(err))
			}

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	return results, nil
}
