package product

import "time"

type Product struct {
	ID        int64
	Name      string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input is the caller-supplied part of a product. Price stays a raw string
// until validation so that "missing" and "not a number" can be told apart.
type Input struct {
	Name  string `validate:"required,max=255"`
	Price string `validate:"required,decimal,nonnegative"`
}

// Page is one bounded, id-ordered slice of the catalog.
type Page struct {
	Items    []*Product
	Number   int
	Size     int
	Total    int64
	LastPage int
}

func (p *Page) IsEmpty() bool {
	return len(p.Items) == 0
}

func (p *Page) HasPrevious() bool {
	return p.Number > 1
}

func (p *Page) HasNext() bool {
	return p.Number < p.LastPage
}

func NewPage(items []*Product, number, size int, total int64) *Page {
	last := 1
	if size > 0 && total > 0 {
		last = int((total + int64(size) - 1) / int64(size))
	}
	return &Page{
		Items:    items,
		Number:   number,
		Size:     size,
		Total:    total,
		LastPage: last,
	}
}
