package sim

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"
)

// renderBatch renders snapshots concurrently and returns the frames in the
// order of batch.
func renderBatch(ctx context.Context, r Renderer, batch []Snapshot) ([]image.Image, error) {
	frames := make([]image.Image, len(batch))
	if len(batch) == 1 {
		img, err := r.Render(batch[0].Bodies)
		if err != nil {
			return nil, &SimulationError{Step: batch[0].Step, Time: batch[0].Time, Wrapped: err}
		}
		frames[0] = img
		return frames, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, snap := range batch {
		i, snap := i, snap
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := r.Render(snap.Bodies)
			if err != nil {
				return &SimulationError{Step: snap.Step, Time: snap.Time, Wrapped: err}
			}
			frames[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
