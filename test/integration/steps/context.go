// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/finance-tracker/budget-api/config"
	"github.com/finance-tracker/budget-api/internal/client/session"
	"github.com/finance-tracker/budget-api/internal/infra/dependency"
	"github.com/finance-tracker/budget-api/internal/integration/filestore"
	"github.com/finance-tracker/budget-api/internal/integration/persistence/model"
	"github.com/finance-tracker/budget-api/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	client       *http.Client
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Auth
	accessToken string

	// Values captured from responses, substituted as {name}
	vars map[string]string

	// Collaborators
	cfg      *config.Config
	clock    *mock.Time
	storage  *dependency.Storage
	remote   *mock.ApiMock
	sessions *session.Manager
	tempDir  string
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// storageDriver picks the backend scenarios run against: sqlite (default),
// redis or file.
func storageDriver() string {
	if d := os.Getenv("GODOG_STORAGE"); d != "" {
		return d
	}
	return config.StorageDriverSQLite
}

// openStorage returns an emptied backend of the configured kind.
func openStorage() (*dependency.Storage, error) {
	switch driver := storageDriver(); driver {
	case config.StorageDriverSQLite:
		database := mock.NewDb(model.All()...)
		if err := database.ClearDB(); err != nil {
			return nil, err
		}
		return dependency.NewSQLStorage(database.Database())
	case config.StorageDriverRedis:
		client := mock.NewRedis()
		if err := mock.ClearRedis(client); err != nil {
			return nil, err
		}
		storage := dependency.NewRedisStorage(client, "godog")
		return storage, nil
	case config.StorageDriverFile:
		return dependency.NewFileStorage(filestore.NewMemory()), nil
	default:
		return nil, fmt.Errorf("unsupported GODOG_STORAGE %q", driver)
	}
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cfg := config.Load()
		cfg.Server.Environment = "test"
		cfg.Password.BcryptCost = bcrypt.MinCost

		storage, err := openStorage()
		if err != nil {
			return ctx, err
		}

		tc := &TestContext{
			client:         &http.Client{},
			requestHeaders: make(map[string]string),
			vars:           make(map[string]string),
			cfg:            cfg,
			clock:          mock.NewTime(),
			storage:        storage,
		}

		injector, err := dependency.NewInjector(cfg, storage, prometheus.NewRegistry(), dependency.WithClock(tc.clock.Now))
		if err != nil {
			return ctx, err
		}
		tc.server = httptest.NewServer(injector.Router.Setup(cfg.Server))

		tc.tempDir, err = os.MkdirTemp("", "fintrack-godog-*")
		if err != nil {
			return ctx, err
		}

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc == nil {
			return ctx, nil
		}
		if tc.server != nil {
			tc.server.Close()
		}
		if tc.remote != nil {
			tc.remote.Close()
		}
		if tc.tempDir != "" {
			_ = os.RemoveAll(tc.tempDir)
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerClientSteps(ctx)
}

func (tc *TestContext) sessionPath() string {
	return filepath.Join(tc.tempDir, "session.json")
}
