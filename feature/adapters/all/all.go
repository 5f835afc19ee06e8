// Package all wires every shipped adapter into a scrape.Registry.
package all

import (
	"slot-aggregator/core/scrape"
	"slot-aggregator/feature/adapters/directory"
	"slot-aggregator/feature/adapters/doctena"
	"slot-aggregator/feature/adapters/kutschera"
	"slot-aggregator/feature/adapters/latido"
	"slot-aggregator/feature/adapters/medineum"
	"slot-aggregator/feature/adapters/mobimed"
	"slot-aggregator/feature/adapters/timesloth"
	"slot-aggregator/feature/adapters/timify"
	"slot-aggregator/feature/adapters/wisitor"
)

// Register adds every adapter and its aliases to reg.
func Register(reg *scrape.Registry) {
	reg.Register(latido.Type, latido.New)
	reg.Register(mobimed.Type, mobimed.New)
	reg.Register(timesloth.Type, timesloth.New)
	reg.Register(wisitor.Type, wisitor.New)
	reg.Register(wisitor.TypeAichinger, wisitor.NewAichinger)
	reg.Register(wisitor.TypePalasser, wisitor.NewPalasser)
	reg.Register(kutschera.Type, kutschera.New)
	reg.Register(medineum.Type, medineum.New)
	reg.Register(timify.Type, timify.New)
	reg.Register(doctena.Type, doctena.New)
	reg.Register(directory.Type, directory.New, directory.Aliases...)
}

// NewRegistry returns a registry with every adapter registered.
func NewRegistry() *scrape.Registry {
	reg := scrape.NewRegistry()
	Register(reg)
	return reg
}
