package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins its alphanumeric runs with dashes
func Slugify(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// Category groups products and tracks how many products it holds
type Category struct {
	shared.BaseEntity
	Name         string
	Slug         string
	ProductCount int
}

// NewCategory creates a category with a slug derived from its name
func NewCategory(name string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       Slugify(name),
	}, nil
}

// AdjustProductCount applies delta to the product counter
func (c *Category) AdjustProductCount(delta int) error {
	next, err := applyCounterDelta(c.ProductCount, delta, "category")
	if err != nil {
		return err
	}
	c.ProductCount = next
	c.Touch()
	return nil
}

// Subcategory is a child of a Category with its own product counter
type Subcategory struct {
	shared.BaseEntity
	CategoryID   uuid.UUID
	Name         string
	Slug         string
	ProductCount int
}

// NewSubcategory creates a subcategory under categoryID
func NewSubcategory(categoryID uuid.UUID, name string) (*Subcategory, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_SUBCATEGORY_NAME", "Subcategory name cannot be empty")
	}
	return &Subcategory{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       name,
		Slug:       Slugify(name),
	}, nil
}

// BelongsTo reports whether the subcategory sits under categoryID
func (s *Subcategory) BelongsTo(categoryID uuid.UUID) bool {
	return s.CategoryID == categoryID
}

// AdjustProductCount applies delta to the product counter
func (s *Subcategory) AdjustProductCount(delta int) error {
	next, err := applyCounterDelta(s.ProductCount, delta, "subcategory")
	if err != nil {
		return err
	}
	s.ProductCount = next
	s.Touch()
	return nil
}

// ErrCounterUnderflow is returned when a product counter would drop below zero
var ErrCounterUnderflow = shared.NewDomainError("COUNTER_UNDERFLOW", "Product counter cannot become negative")

func applyCounterDelta(current, delta int, owner string) (int, error) {
	next := current + delta
	if next < 0 {
		return current, shared.WrapDomainError(ErrCounterUnderflow.Code,
			fmt.Sprintf("%s product counter cannot go below zero (current %d, delta %d)", owner, current, delta), nil)
	}
	return next, nil
}
