package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ressKim-io/sentiment-lab/internal/domain/service"
)

// Bootstrapper loads the built-in datasets and the classifier, then marks the service ready
type Bootstrapper struct {
	datasets DatasetUsecase
	loader   service.ClassifierLoader
	slot     *ClassifierSlot
	logger   *zap.Logger
	loaded   atomic.Bool
	ready    atomic.Bool
}

// NewBootstrapper creates a new bootstrapper
func NewBootstrapper(datasets DatasetUsecase, loader service.ClassifierLoader, slot *ClassifierSlot, logger *zap.Logger) *Bootstrapper {
	return &Bootstrapper{
		datasets: datasets,
		loader:   loader,
		slot:     slot,
		logger:   logger,
	}
}

// Run loads datasets and the classifier concurrently. Dataset failures never fail Run;
// a classifier load failure is returned and leaves the service not ready.
func (b *Bootstrapper) Run(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		b.datasets.LoadBuiltins(ctx)
		b.loaded.Store(true)
		return nil
	})

	g.Go(func() error {
		classifier, err := b.loader.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load classifier: %w", err)
		}
		if !b.slot.Set(classifier) {
			b.logger.Warn("Classifier already loaded, ignoring reload")
			return nil
		}
		b.logger.Info("Loaded classifier", zap.String("model", classifier.Model()))
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	b.ready.Store(true)
	b.logger.Info("Service ready")
	return nil
}

// Ready reports whether Run has completed successfully
func (b *Bootstrapper) Ready() bool {
	return b.ready.Load()
}

// DatasetsLoaded reports whether the built-in datasets have been fetched
func (b *Bootstrapper) DatasetsLoaded() bool {
	return b.loaded.Load()
}

// ClassifierLoaded reports whether the classifier is available
func (b *Bootstrapper) ClassifierLoaded() bool {
	_, ok := b.slot.Get()
	return ok
}
