package models

import (
	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	VendorID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SubcategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Images        []string        `gorm:"type:text;serializer:json"`
	Inventory     int             `gorm:"not null;default:0"`
	SKU           string          `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToAggregateRoot(),
		VendorID:          m.VendorID,
		CategoryID:        m.CategoryID,
		SubcategoryID:     m.SubcategoryID,
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		Images:            m.Images,
		Inventory:         m.Inventory,
		SKU:               m.SKU,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.VendorID = p.VendorID
	m.CategoryID = p.CategoryID
	m.SubcategoryID = p.SubcategoryID
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.Images = p.Images
	m.Inventory = p.Inventory
	m.SKU = p.SKU
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null"`
	Slug         string `gorm:"type:varchar(120);not null;uniqueIndex"`
	ProductCount int    `gorm:"not null;default:0;check:product_count >= 0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Slug:         m.Slug,
		ProductCount: m.ProductCount,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Slug = c.Slug
	m.ProductCount = c.ProductCount
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// SubcategoryModel is the persistence model for the Subcategory domain entity.
type SubcategoryModel struct {
	BaseModel
	CategoryID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Slug         string    `gorm:"type:varchar(120);not null"`
	ProductCount int       `gorm:"not null;default:0;check:product_count >= 0"`
}

// TableName returns the table name for GORM
func (SubcategoryModel) TableName() string {
	return "subcategories"
}

// ToDomain converts the persistence model to a domain Subcategory entity.
func (m *SubcategoryModel) ToDomain() *catalog.Subcategory {
	return &catalog.Subcategory{
		BaseEntity:   m.BaseModel.ToDomain(),
		CategoryID:   m.CategoryID,
		Name:         m.Name,
		Slug:         m.Slug,
		ProductCount: m.ProductCount,
	}
}

// FromDomain populates the persistence model from a domain Subcategory entity.
func (m *SubcategoryModel) FromDomain(s *catalog.Subcategory) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.CategoryID = s.CategoryID
	m.Name = s.Name
	m.Slug = s.Slug
	m.ProductCount = s.ProductCount
}

// SubcategoryModelFromDomain creates a new persistence model from a domain Subcategory entity.
func SubcategoryModelFromDomain(s *catalog.Subcategory) *SubcategoryModel {
	m := &SubcategoryModel{}
	m.FromDomain(s)
	return m
}

// VendorModel is the persistence model for the Vendor domain entity.
type VendorModel struct {
	BaseModel
	UserID         uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex"`
	StoreName      string                 `gorm:"type:varchar(200);not null"`
	ApprovalStatus catalog.ApprovalStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ProductCount   int                    `gorm:"not null;default:0;check:product_count >= 0"`
}

// TableName returns the table name for GORM
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts the persistence model to a domain Vendor entity.
func (m *VendorModel) ToDomain() *catalog.Vendor {
	return &catalog.Vendor{
		BaseEntity:     m.BaseModel.ToDomain(),
		UserID:         m.UserID,
		StoreName:      m.StoreName,
		ApprovalStatus: m.ApprovalStatus,
		ProductCount:   m.ProductCount,
	}
}

// FromDomain populates the persistence model from a domain Vendor entity.
func (m *VendorModel) FromDomain(v *catalog.Vendor) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.UserID = v.UserID
	m.StoreName = v.StoreName
	m.ApprovalStatus = v.ApprovalStatus
	m.ProductCount = v.ProductCount
}

// VendorModelFromDomain creates a new persistence model from a domain Vendor entity.
func VendorModelFromDomain(v *catalog.Vendor) *VendorModel {
	m := &VendorModel{}
	m.FromDomain(v)
	return m
}
