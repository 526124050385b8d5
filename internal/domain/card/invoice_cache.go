package card

import (
	"sync"

	"carteira/internal/domain/installment"
)

// InvoiceCache memoizes computed invoices per card and month. Invoices are pure
// functions of a card's purchases and closing day, so an entry stays valid until
// either changes and Invalidate is called for the card.
//
// Readers take a Generation before loading purchases and hand it back to Put; an
// Invalidate or Purge in between turns that Put into a no-op.
type InvoiceCache struct {
	mu      sync.RWMutex
	entries map[string]map[installment.Month]installment.Invoice
	clock   uint64
	gens    map[string]uint64
	floor   uint64
}

// NewInvoiceCache creates an empty cache
func NewInvoiceCache() *InvoiceCache {
	return &InvoiceCache{
		entries: make(map[string]map[installment.Month]installment.Invoice),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached invoice of cardID for month.
func (c *InvoiceCache) Get(cardID string, month installment.Month) (installment.Invoice, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	inv, ok := c.entries[cardID][month]
	return inv, ok
}

// Generation returns the current generation of cardID.
func (c *InvoiceCache) Generation(cardID string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.generation(cardID)
}

func (c *InvoiceCache) generation(cardID string) uint64 {
	return max(c.gens[cardID], c.floor)
}

// Put stores an invoice under its card and month, unless the card was
// invalidated since gen was taken. It reports whether the invoice was stored.
func (c *InvoiceCache) Put(inv installment.Invoice, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation(inv.CardID) != gen {
		return false
	}

	months, ok := c.entries[inv.CardID]
	if !ok {
		months = make(map[installment.Month]installment.Invoice)
		c.entries[inv.CardID] = months
	}
	months[inv.Month] = inv
	return true
}

// Invalidate drops every cached invoice of cardID.
func (c *InvoiceCache) Invalidate(cardID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock++
	c.gens[cardID] = c.clock
	delete(c.entries, cardID)
}

// Purge drops every cached invoice, e.g. after the change feed reconnects and
// notifications may have been missed.
func (c *InvoiceCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock++
	c.floor = c.clock
	c.gens = make(map[string]uint64)
	c.entries = make(map[string]map[installment.Month]installment.Invoice)
}

func (c *InvoiceCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, months := range c.entries {
		n += len(months)
	}
	return n
}
