package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-mrp/docs"
	"github.com/jhoicas/Inventario-mrp/internal/application/inventory"
	"github.com/jhoicas/Inventario-mrp/internal/application/planning"
	"github.com/jhoicas/Inventario-mrp/internal/application/reporting"
	"github.com/jhoicas/Inventario-mrp/internal/application/usecase"
	"github.com/jhoicas/Inventario-mrp/internal/domain/repository"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/cache"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Inventario-mrp/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-mrp/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/Inventario-mrp/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/Inventario-mrp/internal/interfaces/http"
	"github.com/jhoicas/Inventario-mrp/pkg/config"
	"github.com/jhoicas/Inventario-mrp/pkg/logger"
)

// storage repositorios y runner de transacciones del driver elegido.
type storage struct {
	products  repository.ProductRepository
	batches   repository.BatchRepository
	movements repository.InventoryMovementRepository
	txRunner  inventory.TxRunner
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Redis es opcional: sin él no hay caché de disponibilidad ni lock distribuido.
	var (
		invalidator  inventory.AvailabilityInvalidator
		locker       inventory.ProductLocker
		availability planning.AvailabilityReader
	)
	var availCache *cache.AvailabilityCache
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		availCache = cache.NewAvailabilityCache(rdb, cfg.Redis.CacheTTL)
		invalidator = availCache
		locker = cache.NewProductLocker(rdb, cfg.Redis.LockTTL)
		log.Info().Str("address", cfg.Redis.Address).Msg("caché Redis habilitada")
	}

	ledger := inventory.NewMovementLedger(store.batches, store.movements).WithTxRunner(store.txRunner)
	batchStore := inventory.NewBatchStore(store.txRunner, store.batches, ledger, invalidator)
	availability = batchStore
	if availCache != nil {
		availability = planning.NewCachedAvailability(batchStore, availCache)
	}
	consumption := inventory.NewConsumptionEngine(batchStore, ledger, locker)
	planner := planning.NewPlanner(store.products, availability)
	receiving := inventory.NewReceivingUseCase(store.products, batchStore, consumption, planner, cfg.Inventory.CostDecimals)
	adjustments := inventory.NewAdjustmentEngine(batchStore, ledger, store.products, locker)
	reports := reporting.NewReportUseCase(
		store.products, store.batches, store.movements,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name, cfg.Inventory.CostDecimals),
		infraxlsx.NewLedgerExporter(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http").Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		ProductUC:   usecase.NewProductUseCase(store.products),
		BatchStore:  batchStore,
		Ledger:      ledger,
		Consumption: consumption,
		Adjustments: adjustments,
		Receiving:   receiving,
		Planner:     planner,
		Reports:     reports,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			products:  memory.NewProductRepository(s),
			batches:   memory.NewBatchRepository(s),
			movements: memory.NewMovementRepository(s),
			txRunner:  memory.NewTxRunner(s),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return postgresStorage(pool, cfg.DB), nil
}

func postgresStorage(pool *pgxpool.Pool, cfg config.DBConfig) *storage {
	return &storage{
		products:  postgres.NewProductRepository(pool),
		batches:   postgres.NewBatchRepository(pool),
		movements: postgres.NewInventoryMovementRepository(pool),
		txRunner:  postgres.NewTxRunner(pool, cfg),
		close:     pool.Close,
	}
}
