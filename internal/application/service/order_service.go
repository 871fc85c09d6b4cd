package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/enum"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/observability/metrics"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/clock"
	"github.com/sangkips/restaurant-pos/pkg/logger"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo       repository.OrderRepository
	orderDetailRepo repository.OrderDetailRepository
	productRepo     repository.ProductRepository
	tableRepo       repository.TableRepository
	configRepo      repository.BusinessConfigRepository
	transactor      repository.Transactor
	clock           clock.Clock
	metrics         *metrics.POSMetrics
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderDetailRepo repository.OrderDetailRepository,
	productRepo repository.ProductRepository,
	tableRepo repository.TableRepository,
	configRepo repository.BusinessConfigRepository,
	transactor repository.Transactor,
	clk clock.Clock,
	m *metrics.POSMetrics,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		orderDetailRepo: orderDetailRepo,
		productRepo:     productRepo,
		tableRepo:       tableRepo,
		configRepo:      configRepo,
		transactor:      transactor,
		clock:           clk,
		metrics:         m,
	}
}

// OrderItemInput represents an item in an order
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Notes     *string
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	UserID      uuid.UUID
	ServiceType enum.ServiceType
	TableID     *uuid.UUID
	Guests      int
	Notes       *string
	Items       []OrderItemInput
}

// CreateOrder creates an order, its lines and the stock movements as one unit
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if !input.ServiceType.IsValid() {
		return nil, apperror.NewFieldValidationError("service_type", "invalid service type")
	}
	if input.ServiceType == enum.ServiceTypeDineIn && input.TableID == nil {
		return nil, apperror.NewFieldValidationError("table_id", "a table is required for dine-in orders")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	guests := input.Guests
	if guests < 1 {
		guests = 1
	}

	now := s.clock.Now()
	order := &entity.Order{
		ID:          uuid.New(),
		TableID:     input.TableID,
		UserID:      input.UserID,
		Status:      enum.OrderStatusPending,
		ServiceType: input.ServiceType,
		Guests:      guests,
		Notes:       input.Notes,
		CreatedAt:   now,
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.TableID != nil {
			table, err := s.tableRepo.GetByID(ctx, *input.TableID)
			if err != nil {
				return err
			}
			if table == nil {
				return apperror.NewFieldValidationError("table_id", "table does not exist")
			}
			if table.Status != enum.TableStatusFree {
				return apperror.NewInvalidStateError(fmt.Sprintf("Table %d is not free", table.Number))
			}
		}

		rate, err := s.taxRate(ctx)
		if err != nil {
			return err
		}
		lines, err := s.reserveLines(ctx, order.ID, input.Items, rate, now)
		if err != nil {
			return err
		}
		order.Details = lines
		ComputeTotals(lines, 0).Apply(order)

		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}

		if input.TableID != nil {
			return s.tableRepo.UpdateStatus(ctx, *input.TableID, enum.TableStatusOccupied)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCreated(input.ServiceType.String())
	logger.FromContext(ctx).Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("service_type", input.ServiceType.String()),
		zap.Int64("total_cents", order.Total))

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// AddItems appends lines taxed at the current rate and recomputes the totals from every stored line
func (s *OrderService) AddItems(ctx context.Context, orderID uuid.UUID, items []OrderItemInput) (*entity.Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if order.Status.IsTerminal() {
			return apperror.NewInvalidStateError("Cannot add items to a " + order.Status.String() + " order")
		}

		rate, err := s.taxRate(ctx)
		if err != nil {
			return err
		}
		lines, err := s.reserveLines(ctx, order.ID, items, rate, s.clock.Now())
		if err != nil {
			return err
		}
		if err := s.orderDetailRepo.CreateBatch(ctx, lines); err != nil {
			return err
		}

		stored, err := s.orderDetailRepo.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		ComputeTotals(stored, order.Discount).Apply(order)
		return s.orderRepo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// CancelOrder cancels an unpaid order, returns purchased stock and frees the table
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		switch order.Status {
		case enum.OrderStatusPaid:
			return apperror.NewInvalidStateError("A paid order cannot be cancelled")
		case enum.OrderStatusCancelled:
			return apperror.NewInvalidStateError("Order is already cancelled")
		}

		lines, err := s.orderDetailRepo.GetByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		// Stock is only tracked on purchased products; the repository ignores the rest
		for _, line := range lines {
			if err := s.productRepo.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		order.Status = enum.OrderStatusCancelled
		order.PaidAt = nil
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}
		return s.freeTable(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCancelled()
	logger.FromContext(ctx).Info("order cancelled", zap.String("order_id", orderID.String()))

	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// ChangeState moves an order to any state. Paid stamps paid_at; paid and cancelled free the table.
func (s *OrderService) ChangeState(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldValidationError("status", "invalid order status")
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}

		order.Status = status
		if status == enum.OrderStatusPaid {
			now := s.clock.Now()
			order.PaidAt = &now
		} else {
			order.PaidAt = nil
		}
		if err := s.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		if status.IsTerminal() {
			return s.freeTable(ctx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, orderID)
}

// UpdateLineStatus advances a kitchen line (pending, preparing, ready)
func (s *OrderService) UpdateLineStatus(ctx context.Context, orderID, detailID uuid.UUID, status enum.LineStatus) (*entity.OrderDetail, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldValidationError("status", "invalid line status")
	}

	var detail *entity.OrderDetail
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apperror.NewNotFoundError("Order")
		}
		if order.Status.IsTerminal() {
			return apperror.NewInvalidStateError("Order is " + order.Status.String())
		}

		detail, err = s.orderDetailRepo.GetByID(ctx, detailID)
		if err != nil {
			return err
		}
		if detail == nil || detail.OrderID != orderID {
			return apperror.NewNotFoundError("Order line")
		}
		if status < detail.Status {
			return apperror.NewInvalidStateError(fmt.Sprintf("Line cannot go back from %s to %s", detail.Status, status))
		}

		if err := s.orderDetailRepo.UpdateStatus(ctx, detailID, status); err != nil {
			return err
		}
		detail.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(orders, params.Pagination, total), nil
}

// ActiveOrders returns every order still on the floor
func (s *OrderService) ActiveOrders(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListByStatuses(ctx, enum.ActiveOrderStatuses())
}

// KitchenOrders returns orders being prepared with their unfinished lines
func (s *OrderService) KitchenOrders(ctx context.Context) ([]entity.Order, error) {
	return s.orderRepo.ListKitchen(ctx)
}

// reserveLines validates products, snapshots prices and the tax rate, and takes purchased quantities out of stock
func (s *OrderService) reserveLines(ctx context.Context, orderID uuid.UUID, items []OrderItemInput, rate decimal.Decimal, now time.Time) ([]entity.OrderDetail, error) {
	// Batch fetch all products in one query
	productIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Quantities per product, so repeated lines are checked against the combined demand
	demand := make(map[uuid.UUID]int, len(items))
	for i, item := range items {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, apperror.NewFieldValidationError(fmt.Sprintf("items.%d.product_id", i), "product does not exist")
		}
		if !product.Active {
			return nil, apperror.NewProductUnavailableError(product.Name)
		}
		demand[product.ID] += item.Quantity
	}

	for id, qty := range demand {
		product := productMap[id]
		if !product.TracksStock() {
			continue
		}
		if product.Stock == nil || *product.Stock < qty {
			return nil, apperror.NewInsufficientStockError(product.Name)
		}
		ok, err := s.productRepo.DecrementStock(ctx, id, qty)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperror.NewInsufficientStockError(product.Name)
		}
	}

	lines := make([]entity.OrderDetail, 0, len(items))
	for i, item := range items {
		product := productMap[item.ProductID]
		lines = append(lines, entity.OrderDetail{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.SalePrice,
			SubTotal:  product.SalePrice * int64(item.Quantity),
			TaxRate:   rate,
			Notes:     item.Notes,
			Status:    enum.LineStatusPending,
			// Keep insertion order stable for lines created in the same request
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return lines, nil
}

func (s *OrderService) taxRate(ctx context.Context) (decimal.Decimal, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return cfg.EffectiveTaxRate(), nil
}

func (s *OrderService) freeTable(ctx context.Context, order *entity.Order) error {
	if order.TableID == nil {
		return nil
	}
	return s.tableRepo.UpdateStatus(ctx, *order.TableID, enum.TableStatusFree)
}

func validateItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return apperror.NewFieldValidationError("items", "at least one item is required")
	}
	var fieldErrors []apperror.FieldError
	for i, item := range items {
		if item.ProductID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items.%d.product_id", i),
				Message: "product is required",
			})
		}
		if item.Quantity < 1 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items.%d.quantity", i),
				Message: "quantity must be at least 1",
			})
		}
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
