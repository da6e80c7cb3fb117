package cmd

import (
	"io"
	"log/slog"

	"bookypedia/internal/adapters/in/console"
	api "bookypedia/internal/adapters/in/http"
	"bookypedia/internal/adapters/out/postgres"
	"bookypedia/internal/core/application/usecases"
	"bookypedia/internal/jobs"
	"bookypedia/internal/pkg/validation"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config    Config
	gormDB    *gorm.DB
	validator *validation.Validator
	logger    *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:    config,
		gormDB:    gormDB,
		validator: validation.New(),
		logger:    logger,
	}
}

// NewCatalog returns a catalog with its own Unit-of-Work factory. Catalogs
// must not be shared between goroutines.
func (c *CompositionRoot) NewCatalog() *usecases.Catalog {
	factory := postgres.NewGormUnitOfWorkFactory(c.gormDB, c.logger)
	return usecases.NewCatalog(factory, c.validator, c.logger)
}

func (c *CompositionRoot) CreateConsoleMenu(catalog console.Catalog, input io.Reader, output io.Writer) *console.Menu {
	menu := console.NewMenu(input, output)
	console.NewView(menu, catalog, c.logger)
	return menu
}

func (c *CompositionRoot) CreateHTTPRouter() *echo.Echo {
	server := api.NewServer(func() api.Catalog {
		return c.NewCatalog()
	}, c.logger)
	return api.NewRouter(server, c.validator)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(func() jobs.IntegrityChecker {
		return c.NewCatalog()
	}, c.config.IntegrityCheckSchedule, c.logger)
}
