package dataset

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	overviewKey = "overview"
	edaKey      = "eda"
)

// Analyzer serves dataset statistics, recomputing them at most once per TTL.
type Analyzer struct {
	Path  string
	cache *cache.Cache
}

func NewAnalyzer(path string, ttl time.Duration) *Analyzer {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Analyzer{Path: path, cache: cache.New(ttl, 2*ttl)}
}

func (a *Analyzer) Overview() (Overview, error) {
	if v, ok := a.cache.Get(overviewKey); ok {
		return v.(Overview), nil
	}
	frame, err := a.frame()
	if err != nil {
		return Overview{}, err
	}
	ov, err := Summarize(frame)
	if err != nil {
		return Overview{}, err
	}
	a.cache.Set(overviewKey, ov, cache.DefaultExpiration)
	return ov, nil
}

func (a *Analyzer) EDA() (EDA, error) {
	if v, ok := a.cache.Get(edaKey); ok {
		return v.(EDA), nil
	}
	frame, err := a.frame()
	if err != nil {
		return EDA{}, err
	}
	eda := Explore(frame)
	a.cache.Set(edaKey, eda, cache.DefaultExpiration)
	return eda, nil
}

// Invalidate drops cached results so the next call re-reads the file.
func (a *Analyzer) Invalidate() {
	a.cache.Flush()
}

func (a *Analyzer) frame() (*Frame, error) {
	return LoadFile(a.Path)
}
