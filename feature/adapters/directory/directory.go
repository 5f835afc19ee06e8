// Package directory lists providers that cannot be scraped, for example because
// booking requires a login. They appear with their metadata and no slots.
package directory

import (
	"context"

	"slot-aggregator/core/provider"
	"slot-aggregator/core/scrape"
)

// Type is the registry dispatch key.
const Type = "directory"

// Aliases are legacy keys served by this adapter.
var Aliases = []string{"custom_perfect_smile"}

// Adapter emits one zero-slot entity.
type Adapter struct {
	scrape.Base
}

func New(cfg provider.Config, opts scrape.Options) (scrape.Adapter, error) {
	return &Adapter{Base: scrape.NewBase(cfg, opts)}, nil
}

func (a *Adapter) Scrape(context.Context) ([]provider.Entity, error) {
	a.Log.Debug("Listed as directory entry")
	return a.Finish(nil, nil)
}
