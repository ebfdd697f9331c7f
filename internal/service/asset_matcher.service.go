package service

import (
	"context"
	"sync"

	"quantreport/internal/domain"
	"quantreport/internal/logger"
	"quantreport/internal/repository"
)

// AssetMatcherService resolves every free-text asset name in a request
// to a MatchResult. Lookups for distinct names are independent and run
// on a bounded worker pool. A dictionary failure is never fatal: the
// affected names resolve to MatchTypeNone and the pipeline continues.
type AssetMatcherService interface {
	MatchAssets(ctx context.Context, names []string) map[string]domain.MatchResult
}

type assetMatcherHandler struct {
	DictionaryRepository repository.SecurityDictionaryRepository
	NumWorkers           int
}

func NewAssetMatcherService(dictionaryRepository repository.SecurityDictionaryRepository) AssetMatcherService {
	return &assetMatcherHandler{
		DictionaryRepository: dictionaryRepository,
		NumWorkers:           4,
	}
}

func (h *assetMatcherHandler) MatchAssets(ctx context.Context, names []string) map[string]domain.MatchResult {
	log := logger.FromContext(ctx)

	unique := []string{}
	seen := map[string]bool{}
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}

	results := map[string]domain.MatchResult{}
	var mu sync.Mutex

	inputCh := make(chan string, len(unique))
	for _, name := range unique {
		inputCh <- name
	}
	close(inputCh)

	var wg sync.WaitGroup
	for i := 0; i < h.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case name, ok := <-inputCh:
					if !ok {
						return
					}
					match, err := h.DictionaryRepository.MatchAsset(ctx, name)
					if err != nil {
						log.Warnw("dictionary lookup failed", "name", name, "error", err)
						noMatch := domain.NoMatch(name, "dictionary unavailable")
						match = &noMatch
					}
					mu.Lock()
					results[name] = *match
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()

	// names whose worker was cancelled still get a terminal result
	for _, name := range unique {
		if _, ok := results[name]; !ok {
			results[name] = domain.NoMatch(name, "lookup cancelled")
		}
	}
	return results
}
