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
	"github.com/spf13/cobra"

	_ "github.com/jhoicas/catalogo-api/docs"
	appcatalog "github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/migrations"
	httpRouter "github.com/jhoicas/catalogo-api/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	var autoMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "migrate", true, "aplicar migraciones pendientes al arrancar")
	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	st, err := openStore(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer st.close()

	if autoMigrate {
		applied, err := migrations.Up(ctx, st.db, st.dialect)
		if err != nil {
			return err
		}
		log.Info().Ints64("versions", applied).Msg("migraciones aplicadas")
	}

	importUC := appcatalog.NewImportUseCase(st.tx, cfg.Catalog.MaxBatchItems, log.Component("import"))
	queryUC := appcatalog.NewQueryUseCase(st.units, st.edges, st.history, cfg.Catalog.SalesWindow(), log.Component("query"))
	deleteUC := appcatalog.NewDeleteUseCase(st.tx, log.Component("delete"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    16 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Catálogo API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Import: importUC,
		Query:  queryUC,
		Delete: deleteUC,
		Ping:   st.db.PingContext,
		Log:    log.Component("http"),
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
	return nil
}
