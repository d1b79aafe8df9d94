package catalog

// Item is one catalog entry reduced to what a download needs. Problem is set
// when the entry's id or image_url was missing or malformed; such items stay
// in the catalog so that the failure is reported against their position.
type Item struct {
	Index    int
	ID       string
	ImageURL string
	Problem  error
}

// Valid reports whether the item can be downloaded
func (i Item) Valid() bool {
	return i.Problem == nil
}

// Catalog is the ordered list of items from one fetch, in API response order
type Catalog struct {
	Items []Item
}

// Len returns the number of items, valid or not
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// InvalidCount returns the number of items carrying a Problem
func (c *Catalog) InvalidCount() int {
	n := 0
	for _, item := range c.Items {
		if !item.Valid() {
			n++
		}
	}
	return n
}
