package product

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/product/controller"
	"storefront/internal/product/repository"
	"storefront/internal/product/service"
)

type Module struct {
	Controller *controller.Controller
	Inventory  *service.InventoryCoordinator
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLProductRepository(db)
	inventory := service.NewInventoryCoordinator(repo, logger)
	ctrl := controller.NewController(repo, logger)

	return &Module{
		Controller: ctrl,
		Inventory:  inventory,
	}
}
