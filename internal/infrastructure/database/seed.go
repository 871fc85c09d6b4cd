package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/restaurant-pos/internal/config"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/internal/infrastructure/repository"
	"github.com/sangkips/restaurant-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// rolePermissions maps each seeded role to its permissions
var rolePermissions = map[string][]string{
	entity.RoleAdmin: {
		entity.PermManageTables, entity.PermChangeTable, entity.PermViewTables,
		entity.PermManageProducts, entity.PermViewProducts,
		entity.PermTakeOrders, entity.PermUpdateOrders, entity.PermCancelOrders, entity.PermViewKitchen,
		entity.PermIssueReceipts, entity.PermVoidReceipts, entity.PermViewReceipts,
		entity.PermManageCash, entity.PermManageSettings, entity.PermViewReports, entity.PermPrintDocuments,
	},
	entity.RoleCashier: {
		entity.PermViewTables, entity.PermChangeTable, entity.PermViewProducts,
		entity.PermTakeOrders, entity.PermUpdateOrders, entity.PermCancelOrders,
		entity.PermIssueReceipts, entity.PermViewReceipts,
		entity.PermManageCash, entity.PermViewReports, entity.PermPrintDocuments,
	},
	entity.RoleWaiter: {
		entity.PermViewTables, entity.PermChangeTable, entity.PermViewProducts,
		entity.PermTakeOrders, entity.PermUpdateOrders,
	},
	entity.RoleCook: {
		entity.PermViewProducts, entity.PermViewKitchen, entity.PermUpdateOrders,
	},
}

// SeedDefaultData seeds roles, permissions, the admin user, the business configuration and tables.
// It is idempotent.
func SeedDefaultData(db *gorm.DB, cfg *config.Config) error {
	ctx := context.Background()
	log := zap.L()
	log.Info("seeding default data")

	roleRepo := repository.NewRoleRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	userRepo := repository.NewUserRepository(db)

	if err := seedRoles(ctx, roleRepo, permRepo); err != nil {
		return err
	}
	if err := seedAdmin(ctx, userRepo, roleRepo, cfg.Seed); err != nil {
		return err
	}
	if err := SeedBusinessConfig(db, cfg.Business); err != nil {
		return err
	}
	if err := seedTables(db, cfg.Business.Tables); err != nil {
		return err
	}

	log.Info("default data seeding completed")
	return nil
}

func seedRoles(ctx context.Context, roleRepo domainRepo.RoleRepository, permRepo domainRepo.PermissionRepository) error {
	for roleName, permNames := range rolePermissions {
		permIDs := make([]uint, 0, len(permNames))
		for _, name := range permNames {
			p, err := permRepo.FirstOrCreate(ctx, name)
			if err != nil {
				return fmt.Errorf("seed permission %s: %w", name, err)
			}
			permIDs = append(permIDs, p.ID)
		}

		role, err := roleRepo.GetByName(ctx, roleName)
		if err != nil {
			return err
		}
		if role == nil {
			role = &entity.Role{Name: roleName}
			if err := roleRepo.Create(ctx, role); err != nil {
				return fmt.Errorf("seed role %s: %w", roleName, err)
			}
		}
		if err := roleRepo.SyncPermissions(ctx, role.ID, permIDs); err != nil {
			return fmt.Errorf("seed role permissions %s: %w", roleName, err)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, userRepo domainRepo.UserRepository, roleRepo domainRepo.RoleRepository, seed config.SeedConfig) error {
	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		zap.L().Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	existing, err := userRepo.GetByEmail(ctx, seed.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := utils.HashPassword(seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	adminRole, err := roleRepo.GetByName(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if adminRole == nil {
		return errors.New("admin role missing")
	}

	admin := &entity.User{
		Name:     "Administrador",
		Email:    seed.AdminEmail,
		Password: hashed,
		Active:   true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	if err := userRepo.AssignRole(ctx, admin.ID, adminRole.ID); err != nil {
		return fmt.Errorf("assign admin role: %w", err)
	}
	zap.L().Info("admin user created", zap.String("email", seed.AdminEmail))
	return nil
}

// SeedBusinessConfig creates the singleton configuration row when it is missing.
// An existing row only has its time zone brought in line with the configured one,
// which is the zone the process clock runs on.
func SeedBusinessConfig(db *gorm.DB, b config.BusinessConfig) error {
	var count int64
	if err := db.Model(&entity.BusinessConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		if b.Timezone == "" {
			return nil
		}
		return db.Model(&entity.BusinessConfig{}).
			Where("timezone <> ?", b.Timezone).
			Update("timezone", b.Timezone).Error
	}

	rate, err := decimal.NewFromString(b.TaxRate)
	if err != nil {
		rate = entity.DefaultTaxRate
	}

	row := entity.BusinessConfig{
		BusinessName:   b.Name,
		TaxID:          b.TaxID,
		IssuesBoletas:  true,
		IssuesFacturas: true,
		SeriesBoleta:   b.SeriesBoleta,
		SeriesFactura:  b.SeriesFactura,
		TaxRate:        rate,
		Currency:       b.Currency,
		Timezone:       b.Timezone,
	}
	return db.Create(&row).Error
}

func seedTables(db *gorm.DB, n int) error {
	var count int64
	if err := db.Model(&entity.DiningTable{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || n <= 0 {
		return nil
	}

	tables := make([]entity.DiningTable, 0, n)
	for i := 1; i <= n; i++ {
		capacity := 4
		if i%3 == 0 {
			capacity = 6
		}
		tables = append(tables, entity.DiningTable{
			Number:   i,
			Capacity: capacity,
			Location: entity.DefaultTableLocation,
		})
	}
	return db.Create(&tables).Error
}
