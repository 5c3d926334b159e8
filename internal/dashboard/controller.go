package dashboard

import (
	"sync"
	"time"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/pkg/models"
)

// Controller ties a dataset snapshot to live criteria state. Every
// criteria mutation re-derives the visible rows and schedules a
// debounced sync of the new state into the navigable URL. The snapshot
// is read-only for the controller's lifetime; Replace swaps it wholesale.
//
// There is one logical writer (the UI event stream), but the debounce
// timer fires on its own goroutine, so access is mutex-guarded.
type Controller struct {
	mu       sync.Mutex
	records  []models.CryptoPrice
	criteria Criteria
	urlSync  *QuerySync
}

// NewController creates a controller over the given snapshot, with
// initial criteria (typically parsed from the page URL) and a
// navigation sink for debounced URL updates. A nil navigate disables
// URL synchronization.
func NewController(records []models.CryptoPrice, initial Criteria, delay time.Duration, navigate NavigateFunc) *Controller {
	c := &Controller{
		records:  records,
		criteria: initial,
	}
	if navigate != nil {
		c.urlSync = NewQuerySync(delay, navigate)
	}
	return c
}

// Criteria returns a copy of the current view state.
func (c *Controller) Criteria() Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// View derives the currently visible rows from the snapshot and criteria.
func (c *Controller) View() []models.CryptoPrice {
	c.mu.Lock()
	records, criteria := c.records, c.criteria
	c.mu.Unlock()
	return Derive(records, criteria)
}

// SetSearch updates the free-text filter.
func (c *Controller) SetSearch(search string) {
	c.update(func(cr *Criteria) { cr.Search = search })
}

// SetMinPrice updates the price floor; nil clears it.
func (c *Controller) SetMinPrice(min *float64) {
	c.update(func(cr *Criteria) { cr.MinPrice = min })
}

// SetMinMarketCapB updates the market-cap floor in billions of USD.
func (c *Controller) SetMinMarketCapB(b float64) {
	c.update(func(cr *Criteria) { cr.MinMarketCapB = b })
}

// SetSort updates the sort key, falling back to the default for
// anything outside the enumeration.
func (c *Controller) SetSort(key string) {
	c.update(func(cr *Criteria) { cr.Sort = ParseSortKey(key) })
}

// Replace swaps in a new dataset snapshot (a fresh page load). Criteria
// survive the swap; the URL does not change, so no sync is scheduled.
func (c *Controller) Replace(records []models.CryptoPrice) {
	c.mu.Lock()
	c.records = records
	c.mu.Unlock()
}

// update applies a criteria mutation and schedules the debounced URL sync.
func (c *Controller) update(mutate func(*Criteria)) {
	c.mu.Lock()
	mutate(&c.criteria)
	criteria := c.criteria
	s := c.urlSync
	c.mu.Unlock()
	if s != nil {
		s.Update(criteria)
	}
}

// Flush forces any pending URL sync to run now.
func (c *Controller) Flush() {
	if c.urlSync != nil {
		c.urlSync.Flush()
	}
}

// Stop cancels any pending URL sync.
func (c *Controller) Stop() {
	if c.urlSync != nil {
		c.urlSync.Stop()
	}
}
