package knowledge

import (
	"context"
	"sync"
)

// Provider builds the knowledge store lazily on first use, so startup does
// not block on remote seeding and a transient backend outage at boot does not
// take the whole service down. The build function runs at most once; every
// caller after that shares the same store.
type Provider struct {
	once  sync.Once
	build func(ctx context.Context) Store
	store Store
}

func NewProvider(build func(ctx context.Context) Store) *Provider {
	return &Provider{build: build}
}

func (p *Provider) Get(ctx context.Context) Store {
	p.once.Do(func() {
		p.store = p.build(ctx)
	})
	return p.store
}
