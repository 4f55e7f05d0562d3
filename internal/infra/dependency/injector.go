// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/finance-tracker/budget-api/config"
	"github.com/finance-tracker/budget-api/internal/application/usecase/auth"
	"github.com/finance-tracker/budget-api/internal/application/usecase/budget"
	"github.com/finance-tracker/budget-api/internal/application/usecase/profile"
	"github.com/finance-tracker/budget-api/internal/application/usecase/transaction"
	"github.com/finance-tracker/budget-api/internal/infra/server/router"
	"github.com/finance-tracker/budget-api/internal/integration/adapters"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/middleware"
)

// Injector holds all application dependencies.
type Injector struct {
	Config  *config.Config
	Storage *Storage
	Router  *router.Router
}

// Option customises NewInjector.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used to issue and check session tokens.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewInjector creates a new dependency injector with all dependencies wired.
// Request metrics are registered with reg.
func NewInjector(cfg *config.Config, storage *Storage, reg *prometheus.Registry, opts ...Option) (*Injector, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	userRepo := storage.Users
	transactionRepo := storage.Transactions
	budgetRepo := storage.Budgets

	// Create adapters/services
	passwordService := adapters.NewPasswordService(cfg.Password.BcryptCost)
	tokenOpts := []adapters.TokenOption{
		adapters.WithTokenDuration(cfg.JWT.Expiry),
		adapters.WithIssuer(cfg.JWT.Issuer),
	}
	if o.now != nil {
		tokenOpts = append(tokenOpts, adapters.WithClock(o.now))
	}
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenOpts...)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)

	// Create profile use cases
	getProfileUseCase := profile.NewGetProfileUseCase(userRepo)
	updateProfileUseCase := profile.NewUpdateProfileUseCase(userRepo)
	updateAvatarUseCase := profile.NewUpdateAvatarUseCase(userRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, budgetRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(transactionRepo, budgetRepo)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)

	// Create budget use cases
	listBudgetsUseCase := budget.NewListBudgetsUseCase(budgetRepo)
	createBudgetUseCase := budget.NewCreateBudgetUseCase(budgetRepo)
	updateBudgetUseCase := budget.NewUpdateBudgetUseCase(budgetRepo)
	deleteBudgetUseCase := budget.NewDeleteBudgetUseCase(budgetRepo, transactionRepo)

	// Create controllers
	healthController := controller.NewHealthController(storage.Health, storage.Driver)
	authController := controller.NewAuthController(registerUseCase, loginUseCase)
	profileController := controller.NewProfileController(
		getProfileUseCase,
		updateProfileUseCase,
		updateAvatarUseCase,
	)
	transactionController := controller.NewTransactionController(
		listTransactionsUseCase,
		createTransactionUseCase,
		updateTransactionUseCase,
		deleteTransactionUseCase,
	)
	budgetController := controller.NewBudgetController(
		listBudgetsUseCase,
		createBudgetUseCase,
		updateBudgetUseCase,
		deleteBudgetUseCase,
	)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	r := router.NewRouter(router.Options{
		Health:       healthController,
		Auth:         authController,
		Profile:      profileController,
		Transactions: transactionController,
		Budgets:      budgetController,
		AuthMW:       authMiddleware,
		Metrics:      metrics,
		Gatherer:     reg,
		Logger:       slog.Default(),
	})

	return &Injector{
		Config:  cfg,
		Storage: storage,
		Router:  r,
	}, nil
}
