package scene

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// Prober measures the length of a media file in seconds.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// ProbeDurations fills in missing scene durations from each scene's audio
// track, the way the renderer sizes a clip to its narration. Scenes that
// already have a duration, or have no audio, are left alone. A failed probe
// is logged and the scene keeps DefaultDuration. It returns the number of
// scenes that were updated.
func ProbeDurations(ctx context.Context, scenes []Scene, prober Prober, workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	probed := make([]float64, len(scenes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range scenes {
		i := i
		sc := scenes[i]
		if HasDuration(sc) || sc.Audio == "" {
			continue
		}
		g.Go(func() error {
			d, err := prober.Duration(ctx, sc.Audio)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[!] scene %d: cannot probe %s: %v", i+1, sc.Audio, err)
				return nil
			}
			probed[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	updated := 0
	for i, d := range probed {
		if d > 0 {
			scenes[i].Duration = d
			updated++
		}
	}
	return updated, nil
}
