package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput represents the create/update product input.
// Stock fields are only kept for purchased products.
type ProductInput struct {
	CategoryID    uuid.UUID
	Name          string
	Description   *string
	SalePrice     decimal.Decimal
	Kind          enum.ProductKind
	PurchasePrice *decimal.Decimal
	Stock         *int
	MinStock      *int
	Unit          *string
	SKU           *string
	Active        *bool
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	product := &entity.Product{Active: true}
	if err := s.apply(ctx, product, input); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(products, params.Pagination, total), nil
}

// UpdateProduct replaces the editable fields of a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, product, input); err != nil {
		return nil, err
	}

	product.Category = nil
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}

// DeleteProduct deactivates a product so past order lines keep their reference
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	product.Active = false
	product.Category = nil
	return s.productRepo.Update(ctx, product)
}

// LowStock lists active purchased products at or below their minimum stock
func (s *ProductService) LowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// AdjustStock sets the counted stock of a purchased product
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, stock int) (*entity.Product, error) {
	if stock < 0 {
		return nil, apperror.NewFieldValidationError("stock", "must not be negative")
	}
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.TracksStock() {
		return nil, apperror.NewInvalidStateError("Only purchased products track stock")
	}

	if err := s.productRepo.SetStock(ctx, id, stock); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("stock adjusted",
		zap.String("product_id", id.String()),
		zap.Intp("from", product.Stock),
		zap.Int("to", stock))

	product.Stock = &stock
	return product, nil
}

// apply validates input and copies it onto product
func (s *ProductService) apply(ctx context.Context, product *entity.Product, input *ProductInput) error {
	var fieldErrors []apperror.FieldError
	add := func(field, msg string) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: msg})
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		add("name", "name is required")
	}
	if !input.SalePrice.IsPositive() {
		add("sale_price", "must be greater than 0")
	}
	if !input.Kind.IsValid() {
		add("kind", "invalid product kind")
	}
	if input.Kind == enum.ProductKindPurchased {
		if input.Stock == nil || *input.Stock < 0 {
			add("stock", "required for purchased products and must not be negative")
		}
		if input.MinStock == nil || *input.MinStock < 0 {
			add("min_stock", "required for purchased products and must not be negative")
		}
		if input.PurchasePrice != nil && input.PurchasePrice.IsNegative() {
			add("purchase_price", "must not be negative")
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewFieldValidationError("category_id", "category does not exist")
	}

	product.CategoryID = category.ID
	product.Name = name
	product.Description = trimmed(input.Description)
	product.SalePrice = ToCents(input.SalePrice)
	product.Kind = input.Kind
	if input.Active != nil {
		product.Active = *input.Active
	}

	if input.Kind != enum.ProductKindPurchased {
		product.ClearStockFields()
		return nil
	}

	if sku := trimmed(input.SKU); sku != nil {
		existing, err := s.productRepo.GetBySKU(ctx, *sku)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != product.ID {
			return apperror.NewFieldValidationError("sku", fmt.Sprintf("SKU %s is already in use", *sku))
		}
		product.SKU = sku
	} else {
		product.SKU = nil
	}

	product.Stock = input.Stock
	product.MinStock = input.MinStock
	product.Unit = trimmed(input.Unit)
	product.PurchasePrice = nil
	if input.PurchasePrice != nil {
		cents := ToCents(*input.PurchasePrice)
		product.PurchasePrice = &cents
	}
	return nil
}
