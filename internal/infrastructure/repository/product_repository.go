package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := dbFrom(ctx, r.db).Preload("Category").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := dbFrom(ctx, r.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var product entity.Product
	err := dbFrom(ctx, r.db).First(&product, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Omit("Category").Save(product).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Product{}).
		Scopes(Search(params.Search, "name", "sku"))

	if !params.IncludeInactive {
		query = query.Where("active = ?", true)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Kind != nil {
		query = query.Where("kind = ?", *params.Kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Category").
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := dbFrom(ctx, r.db).
		Where("kind = ? AND active = ?", enum.ProductKindPurchased, true).
		Where("min_stock IS NOT NULL AND stock <= min_stock").
		Preload("Category").
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	return dbFrom(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := dbFrom(ctx, r.db).Model(&entity.Product{}).
		Where("id = ? AND stock >= ?", id, amount).
		Update("stock", gorm.Expr("stock - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	return dbFrom(ctx, r.db).Model(&entity.Product{}).
		Where("id = ? AND stock IS NOT NULL", id).
		Update("stock", gorm.Expr("stock + ?", amount)).Error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return dbFrom(ctx, r.db).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := dbFrom(ctx, r.db).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	err := dbFrom(ctx, r.db).First(&category, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return dbFrom(ctx, r.db).Omit("Products").Save(category).Error
}

func (r *categoryRepository) List(ctx context.Context, includeInactive bool) ([]entity.Category, error) {
	var categories []entity.Category
	query := dbFrom(ctx, r.db)
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	err := query.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) ListWithActiveProducts(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := dbFrom(ctx, r.db).
		Where("active = ?", true).
		Preload("Products", "active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}
