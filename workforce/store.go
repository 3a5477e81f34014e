/*
store.go - Seed population and the interfaces that load/save it

PURPOSE:
  The Ledger holds state in memory only. Its initial contents come from a
  Population supplied by the host: a YAML seed file, a seed database, a
  demo scenario, or a literal in tests. Source and Sink decouple the
  ledger from where that population lives.

IMPLEMENTATIONS:
  - workforce/store/memory.go: In-memory, for tests and ephemeral setups
  - store/sqlite/sqlite.go: SQLite seed database
  - seed/yaml.go: YAML seed files (decoder, not a Source)

NOTE:
  Saving a population is a seeding tool. Mutations applied to a running
  Ledger are not written back anywhere.
*/
package workforce

import "context"

// Population is the full content of a Ledger, in insertion order.
type Population struct {
	Labourers   []Labourer
	Contractors []Contractor
	WorkOrders  []WorkOrder
}

// Source loads a population.
type Source interface {
	Load(ctx context.Context) (Population, error)
}

// Sink replaces a stored population.
type Sink interface {
	Save(ctx context.Context, pop Population) error
}

// Clone returns a deep copy.
func (p Population) Clone() Population {
	out := Population{
		Labourers:   make([]Labourer, len(p.Labourers)),
		Contractors: make([]Contractor, len(p.Contractors)),
		WorkOrders:  make([]WorkOrder, len(p.WorkOrders)),
	}
	for i, l := range p.Labourers {
		out.Labourers[i] = l.clone()
	}
	for i, c := range p.Contractors {
		out.Contractors[i] = c.clone()
	}
	for i, w := range p.WorkOrders {
		out.WorkOrders[i] = w.clone()
	}
	return out
}

// LoadLedger builds a Ledger from src.
func LoadLedger(ctx context.Context, src Source, opts ...Option) (*Ledger, error) {
	pop, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return NewLedger(pop, opts...)
}
