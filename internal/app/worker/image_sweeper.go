package worker

import (
	"context"
	"time"

	"melodia/internal/platform/storage"

	"github.com/rs/zerolog"
)

// ProfileImageSource lists every image URL the application still references.
type ProfileImageSource interface {
	ListProfileImages(ctx context.Context) ([]string, error)
}

// ImageSweeper periodically deletes images from the store that no user row
// references anymore. Uploads racing with a sweep can be deleted spuriously
// in the window between the store listing and the reference snapshot; the
// next upload simply re-creates them, so the sweep tolerates it.
type ImageSweeper struct {
	source   ProfileImageSource
	store    storage.ImageStore
	interval time.Duration
	log      zerolog.Logger
}

func NewImageSweeper(source ProfileImageSource, store storage.ImageStore, interval time.Duration, log zerolog.Logger) *ImageSweeper {
	return &ImageSweeper{source: source, store: store, interval: interval, log: log}
}

// Run sweeps immediately and then on every tick until ctx is cancelled.
func (w *ImageSweeper) Run(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("image sweeper started")

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("image sweeper stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// Sweep runs a single pass and reports how many images were removed.
func (w *ImageSweeper) Sweep(ctx context.Context) (int, error) {
	stored, err := w.store.List(ctx)
	if err != nil {
		return 0, err
	}

	urls, err := w.source.ListProfileImages(ctx)
	if err != nil {
		return 0, err
	}

	// Compare by public id so URL variants (versions, extensions) of the
	// same asset still match.
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[storage.ExtractPublicID(u)] = struct{}{}
	}

	removed := 0
	for _, url := range stored {
		if _, ok := referenced[storage.ExtractPublicID(url)]; ok {
			continue
		}
		if err := w.store.Delete(ctx, url); err != nil {
			w.log.Warn().Err(err).Str("url", url).Msg("failed to delete orphaned image")
			continue
		}
		removed++
	}
	return removed, nil
}

func (w *ImageSweeper) sweep(ctx context.Context) {
	removed, err := w.Sweep(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("image sweep failed")
		return
	}
	w.log.Info().Int("removed", removed).Msg("image sweep completed")
}
