// Package catalog loads the read-only product list and filters it for
// display.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/fairyhunter13/pos-register/internal/model"
)

//go:embed sample.json
var sampleJSON []byte

var (
	ErrDuplicateID  = errors.New("duplicate product id")
	ErrInvalidEntry = errors.New("invalid product")
)

// Supplier yields the ordered product list for a session.
type Supplier interface {
	Products(ctx context.Context) ([]model.Product, error)
}

type document struct {
	Products []model.Product `json:"products"`
}

func decode(b []byte) ([]model.Product, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Products, nil
}

// FileSupplier reads a JSON document of the form {"products":[...]}.
type FileSupplier struct {
	Path string
}

// Products implements Supplier.
func (f FileSupplier) Products(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", f.Path, err)
	}
	return decode(b)
}

// EmbeddedSupplier serves the bundled sample catalog.
type EmbeddedSupplier struct{}

// Products implements Supplier.
func (EmbeddedSupplier) Products(ctx context.Context) ([]model.Product, error) {
	return decode(sampleJSON)
}

// Catalog is an immutable, validated product list.
type Catalog struct {
	products []model.Product
	byID     map[int64]int
}

// Load fetches products from s and validates them.
func Load(ctx context.Context, s Supplier) (*Catalog, error) {
	ps, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return New(ps)
}

// New validates ps and builds a Catalog. IDs must be unique, names
// non-empty and prices non-negative.
func New(ps []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: append([]model.Product(nil), ps...),
		byID:     make(map[int64]int, len(ps)),
	}
	for i, p := range c.products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: id %d has no name", ErrInvalidEntry, p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: id %d has negative price", ErrInvalidEntry, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// All returns every product in catalog order.
func (c *Catalog) All() []model.Product {
	return append([]model.Product(nil), c.products...)
}

// Find looks a product up by id.
func (c *Catalog) Find(id int64) (model.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i], true
}

// Filter returns the products whose name matches keyword as a
// case-insensitive regular expression. An empty keyword matches all; a
// keyword that is not a valid expression is matched literally.
func (c *Catalog) Filter(keyword string) []model.Product {
	if keyword == "" {
		return c.All()
	}
	rg, err := regexp.Compile("(?i)" + keyword)
	if err != nil {
		rg = regexp.MustCompile("(?i)" + regexp.QuoteMeta(keyword))
	}
	out := []model.Product{}
	for _, p := range c.products {
		if rg.MatchString(p.Name) {
			out = append(out, p)
		}
	}
	return out
}
