package orchestrator

import "github.com/arthur-debert/overlayforge/pkg/diff"

// cacheTable is the CacheTable: an insertion-ordered map from pathname to
// its ordered list of ChangeLists, position 0 being the baseline.
type cacheTable struct {
	order   []string
	entries map[string][]diff.ChangeList
}

func newCacheTable() *cacheTable {
	return &cacheTable{entries: make(map[string][]diff.ChangeList)}
}

func (c *cacheTable) has(pathname string) bool {
	_, ok := c.entries[pathname]
	return ok
}

func (c *cacheTable) append(pathname string, cl diff.ChangeList) {
	if _, exists := c.entries[pathname]; !exists {
		c.order = append(c.order, pathname)
	}
	c.entries[pathname] = append(c.entries[pathname], cl)
}

func (c *cacheTable) delete(pathname string) {
	if _, exists := c.entries[pathname]; !exists {
		return
	}
	delete(c.entries, pathname)
	for i, p := range c.order {
		if p == pathname {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// baselineText reconstitutes pathname's baseline (position 0) text by
// concatenating the value of every non-removed change in order.
func (c *cacheTable) baselineText(pathname string) string {
	changeLists := c.entries[pathname]
	if len(changeLists) == 0 {
		return ""
	}
	return changeLists[0].Text()
}
