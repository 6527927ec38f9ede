package order

import (
	"database/sql"

	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/infrastructure/mysql"
	"storefront/internal/order/controller"
	"storefront/internal/order/repository"
	"storefront/internal/order/service"
	"storefront/internal/order/usecase"
	productservice "storefront/internal/product/service"
)

func NewModule(
	db *sql.DB,
	inventory *productservice.InventoryCoordinator,
	cartStore *cart.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *controller.Controller {
	orderRepo := repository.NewMySQLOrderRepository(db)
	txRunner := mysql.NewTxRunner(db, cfg.Order.PlacementTxTimeout)
	numbers := service.NewOrderNumberGenerator(orderRepo)

	placementSvc := service.NewPlacementService(txRunner, inventory, orderRepo, numbers, logger)
	statusSvc := service.NewStatusService(txRunner, orderRepo, inventory, logger)

	placeUC := usecase.NewPlaceOrderUseCase(placementSvc, cartStore, logger, cfg.Order.MaxRetryAttempts)
	changeUC := usecase.NewChangeStatusUseCase(statusSvc, logger, cfg.Order.MaxRetryAttempts)
	queryUC := usecase.NewQueryOrdersUseCase(orderRepo, logger)

	return controller.NewController(placeUC, changeUC, queryUC, logger)
}
