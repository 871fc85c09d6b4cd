package service

import (
	"context"
	"strings"

	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// BusinessConfigService reads and edits the business configuration row
type BusinessConfigService struct {
	configRepo repository.BusinessConfigRepository
	transactor repository.Transactor
}

// NewBusinessConfigService creates a new business config service
func NewBusinessConfigService(configRepo repository.BusinessConfigRepository, transactor repository.Transactor) *BusinessConfigService {
	return &BusinessConfigService{
		configRepo: configRepo,
		transactor: transactor,
	}
}

// UpdateBusinessConfigInput holds the editable fields. Nil fields are left unchanged.
// Document counters and the time zone are not editable; the zone comes from
// BUSINESS_TIMEZONE at startup because the clock is built from it.
type UpdateBusinessConfigInput struct {
	BusinessName   *string
	TaxID          *string
	Address        *string
	Phone          *string
	IssuesBoletas  *bool
	IssuesFacturas *bool
	SeriesBoleta   *string
	SeriesFactura  *string
	TaxRate        *decimal.Decimal
	Currency       *string
}

// Get returns the configuration
func (s *BusinessConfigService) Get(ctx context.Context) (*entity.BusinessConfig, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperror.ErrConfigurationMissing
	}
	return cfg, nil
}

// Update edits the configuration under the same row lock the sequence allocator takes
func (s *BusinessConfigService) Update(ctx context.Context, input *UpdateBusinessConfigInput) (*entity.BusinessConfig, error) {
	if err := validateBusinessConfig(input); err != nil {
		return nil, err
	}

	var cfg *entity.BusinessConfig
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		cfg, err = s.configRepo.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return apperror.ErrConfigurationMissing
		}

		if input.BusinessName != nil {
			cfg.BusinessName = strings.TrimSpace(*input.BusinessName)
		}
		if input.TaxID != nil {
			cfg.TaxID = strings.TrimSpace(*input.TaxID)
		}
		if input.Address != nil {
			cfg.Address = strings.TrimSpace(*input.Address)
		}
		if input.Phone != nil {
			cfg.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.IssuesBoletas != nil {
			cfg.IssuesBoletas = *input.IssuesBoletas
		}
		if input.IssuesFacturas != nil {
			cfg.IssuesFacturas = *input.IssuesFacturas
		}
		if input.SeriesBoleta != nil {
			cfg.SeriesBoleta = strings.ToUpper(strings.TrimSpace(*input.SeriesBoleta))
		}
		if input.SeriesFactura != nil {
			cfg.SeriesFactura = strings.ToUpper(strings.TrimSpace(*input.SeriesFactura))
		}
		if input.TaxRate != nil {
			cfg.TaxRate = input.TaxRate.Round(2)
		}
		if input.Currency != nil {
			cfg.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
		}
		return s.configRepo.Update(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateBusinessConfig(input *UpdateBusinessConfigInput) error {
	var fieldErrors []apperror.FieldError
	add := func(field, msg string) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: field, Message: msg})
	}

	if input.BusinessName != nil && strings.TrimSpace(*input.BusinessName) == "" {
		add("business_name", "must not be empty")
	}
	if input.SeriesBoleta != nil && !validSeries(*input.SeriesBoleta) {
		add("series_boleta", "must be 1 to 10 characters")
	}
	if input.SeriesFactura != nil && !validSeries(*input.SeriesFactura) {
		add("series_factura", "must be 1 to 10 characters")
	}
	if input.TaxRate != nil && (input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(hundred)) {
		add("tax_rate", "must be between 0 and 100")
	}
	if input.Currency != nil && len(strings.TrimSpace(*input.Currency)) != 3 {
		add("currency", "must be a 3-letter code")
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func validSeries(s string) bool {
	n := len(strings.TrimSpace(s))
	return n >= 1 && n <= 10
}
