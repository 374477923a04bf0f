// Package preview serves hover previews of ticket descriptions while
// guaranteeing at most one in-flight description fetch per client: starting
// a new preview cancels the client's previous one, so a stale result can
// never land after a newer request.
package preview

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded reports that a newer preview request for the same client
// replaced this one before it finished.
var ErrSuperseded = errors.New("preview superseded by a newer request")

// Loader fetches and renders one ticket's description.
type Loader func(ctx context.Context, key string) (string, error)

type call struct {
	cancel context.CancelFunc
}

type Fetcher struct {
	load Loader

	mu       sync.Mutex
	inflight map[string]*call
}

func New(load Loader) *Fetcher {
	return &Fetcher{load: load, inflight: make(map[string]*call)}
}

// Fetch renders the description preview for key on behalf of clientID,
// first canceling whatever fetch that client still has running. A fetch
// canceled by supersession reports ErrSuperseded; a caller-side abort
// (browser dropped the request) reports the parent context's error.
func (f *Fetcher) Fetch(parent context.Context, clientID, key string) (string, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	c := &call{cancel: cancel}

	f.mu.Lock()
	if prev, ok := f.inflight[clientID]; ok {
		prev.cancel()
	}
	f.inflight[clientID] = c
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		if f.inflight[clientID] == c {
			delete(f.inflight, clientID)
		}
		f.mu.Unlock()
	}()

	html, err := f.load(ctx, key)

	// The load may have finished just as a newer request canceled this
	// one; a superseded result must not surface either way.
	if ctx.Err() != nil && parent.Err() == nil {
		return "", ErrSuperseded
	}
	if err != nil {
		return "", err
	}
	return html, nil
}
