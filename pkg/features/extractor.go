// Package features implements the meta-feature catalog: extractor groups
// that reduce a scalar time series to named numeric descriptors. Groups
// register themselves by flag name and are executed by a runner that
// shares one precomputed series context (standardized values, ACF, AMI,
// period, decomposition) across all groups, so no group recomputes what a
// sibling already derived.
package features

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Report is a map of feature names to values (scalars or lag/dimension
// indexed arrays).
type Report = map[string]any

// Extractor is the common contract for feature groups.
type Extractor interface {
	Name() string
	Flag() string
	Description() string

	// Configure applies settings from the provided facts map; unknown
	// keys are ignored, recognized keys with wrong types are errors.
	Configure(facts map[string]any) error

	// Extract computes the group's features from the shared context.
	Extract(ctx context.Context, sc *Context) (Report, error)
}

// ErrUnknownExtractor indicates a requested flag with no registration.
var ErrUnknownExtractor = errors.New("unknown extractor")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Extractor)
)

// Register adds an extractor constructor under its flag name. Duplicate
// registrations panic: they indicate a wiring bug, not a runtime
// condition.
func Register(flag string, constructor func() Extractor) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, ok := registry[flag]; ok {
		panic(fmt.Sprintf("features: duplicate extractor flag %q", flag))
	}

	registry[flag] = constructor
}

// New instantiates the extractor registered under flag.
func New(flag string) (Extractor, error) {
	registryMu.RLock()
	constructor, ok := registry[flag]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtractor, flag)
	}

	return constructor(), nil
}

// Flags returns the sorted registered flag names.
func Flags() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	flags := make([]string, 0, len(registry))
	for f := range registry {
		flags = append(flags, f)
	}

	sort.Strings(flags)

	return flags
}

// RunAll configures and executes the extractors for the given flags
// against one shared context, fanning groups out over at most maxParallel
// goroutines. Group order in the result map carries no meaning; each
// group is independent of its siblings.
func RunAll(ctx context.Context, sc *Context, flags []string, facts map[string]any, maxParallel int) (map[string]Report, error) {
	if maxParallel < 1 {
		maxParallel = 1
	}

	reports := make(map[string]Report, len(flags))

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for _, flag := range flags {
		g.Go(func() error {
			extractor, err := New(flag)
			if err != nil {
				return err
			}

			if err := extractor.Configure(facts); err != nil {
				return fmt.Errorf("configure %s: %w", flag, err)
			}

			report, err := extractor.Extract(gctx, sc)
			if err != nil {
				return fmt.Errorf("extract %s: %w", flag, err)
			}

			mu.Lock()
			reports[flag] = report
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
