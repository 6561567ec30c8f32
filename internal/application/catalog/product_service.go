package catalog

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/multimart/backend/internal/application/shared"
	"github.com/multimart/backend/internal/domain/catalog"
	"github.com/multimart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles vendor product listings and keeps the product
// counters of vendors, categories and subcategories in step with them
type ProductService struct {
	vendorRepo   catalog.VendorRepository
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	txScope      appshared.TransactionScope
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	vendorRepo catalog.VendorRepository,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	txScope appshared.TransactionScope,
) *ProductService {
	return &ProductService{
		vendorRepo:   vendorRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		txScope:      txScope,
		logger:       zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *ProductService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// CreateProduct lists a new product for the caller's vendor account
func (s *ProductService) CreateProduct(ctx context.Context, vendorUserID uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	vendor, err := s.approvedVendor(ctx, vendorUserID, "add products")
	if err != nil {
		return nil, err
	}
	if err := s.validatePlacement(ctx, req.CategoryID, req.SubcategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(vendor.ID, req.details())
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.ProductRepo().Create(ctx, product); err != nil {
			return err
		}
		if err := repos.CounterRepo().Apply(ctx, catalog.AdjustmentsForCreate(product)...); err != nil {
			return err
		}
		return appshared.PublishPending(ctx, repos.EventPublisher(), product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("vendor_id", vendor.ID.String()),
	)
	response := ToProductResponse(product)
	return &response, nil
}

// UpdateProduct replaces the details of a product owned by the caller's vendor
// account. A category or subcategory change moves one count from the old
// counter to the new one; the vendor counter is untouched.
func (s *ProductService) UpdateProduct(ctx context.Context, vendorUserID, productID uuid.UUID, req ProductRequest) (*ProductResponse, error) {
	vendor, err := s.approvedVendor(ctx, vendorUserID, "update products")
	if err != nil {
		return nil, err
	}
	product, err := s.ownedProduct(ctx, vendor, productID)
	if err != nil {
		return nil, err
	}
	if err := s.validatePlacement(ctx, req.CategoryID, req.SubcategoryID); err != nil {
		return nil, err
	}

	before, err := product.Update(req.details())
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
			return err
		}
		if moves := catalog.AdjustmentsForMove(before, product.Placement()); len(moves) > 0 {
			if err := repos.CounterRepo().Apply(ctx, moves...); err != nil {
				return err
			}
		}
		return appshared.PublishPending(ctx, repos.EventPublisher(), product)
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// DeleteProduct removes a product owned by the caller's vendor account
func (s *ProductService) DeleteProduct(ctx context.Context, vendorUserID, productID uuid.UUID) error {
	vendor, err := s.approvedVendor(ctx, vendorUserID, "delete products")
	if err != nil {
		return err
	}
	product, err := s.ownedProduct(ctx, vendor, productID)
	if err != nil {
		return err
	}

	product.MarkDeleted()
	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		if err := repos.ProductRepo().DeleteWithLock(ctx, product); err != nil {
			return err
		}
		if err := repos.CounterRepo().Apply(ctx, catalog.AdjustmentsForDelete(product)...); err != nil {
			return err
		}
		return appshared.PublishPending(ctx, repos.EventPublisher(), product)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", product.ID.String()),
		zap.String("vendor_id", vendor.ID.String()),
	)
	return nil
}

func (s *ProductService) approvedVendor(ctx context.Context, userID uuid.UUID, action string) (*catalog.Vendor, error) {
	vendor, err := s.vendorRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := vendor.EnsureApproved(action); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *ProductService) ownedProduct(ctx context.Context, vendor *catalog.Vendor, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !vendor.Owns(product) {
		return nil, shared.Forbidden("Product does not belong to vendor")
	}
	return product, nil
}

// validatePlacement checks that the category exists and that the optional
// subcategory exists under it
func (s *ProductService) validatePlacement(ctx context.Context, categoryID uuid.UUID, subcategoryID *uuid.UUID) error {
	if _, err := s.categoryRepo.FindCategoryByID(ctx, categoryID); err != nil {
		return err
	}
	if subcategoryID == nil {
		return nil
	}
	sub, err := s.categoryRepo.FindSubcategoryByID(ctx, *subcategoryID)
	if err != nil {
		return err
	}
	if !sub.BelongsTo(categoryID) {
		return shared.NewDomainError("INVALID_SUBCATEGORY", "Subcategory does not belong to the selected category")
	}
	return nil
}
