// Package catalog loads the read-only products, categories and promotion
// codes the engine works against.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var ErrDuplicateID = errors.New("duplicate id")

type Catalog struct {
	Categories []models.Category  `yaml:"categories" validate:"dive"`
	Products   []models.Product   `yaml:"products" validate:"dive"`
	Promos     []models.PromoCode `yaml:"promos" validate:"dive"`

	products map[string]int
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	return Decode(bytes.NewReader(raw))
}

func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	if err := validator.New().Struct(&c); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	if err := c.index(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Catalog) index() error {
	c.products = make(map[string]int, len(c.Products))
	for i, p := range c.Products {
		if _, dup := c.products[p.ID]; dup {
			return fmt.Errorf("product %q: %w", p.ID, ErrDuplicateID)
		}
		c.products[p.ID] = i
	}

	promos := make(map[string]struct{}, len(c.Promos))
	for _, p := range c.Promos {
		if _, dup := promos[p.ID]; dup {
			return fmt.Errorf("promo %q: %w", p.ID, ErrDuplicateID)
		}
		promos[p.ID] = struct{}{}
	}

	return nil
}

func (c *Catalog) Product(id string) (models.Product, bool) {
	i, ok := c.products[id]
	if !ok {
		return models.Product{}, false
	}

	return c.Products[i], true
}

// ProductsIn lists the products of a category in file order; an empty
// category lists everything.
func (c *Catalog) ProductsIn(categoryID string) []models.Product {
	if categoryID == "" {
		return slices.Clone(c.Products)
	}

	var out []models.Product
	for _, p := range c.Products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}

	return out
}
