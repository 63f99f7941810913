// seed importa productos desde un CSV con cabecera
// nombre,descripcion,categoria,precio,stock,codigo
//
// Uso: go run ./cmd/seed [-latin1] [-dry-run] productos.csv
// Usa la misma configuración que la API (DATABASE_URL / DB_*). Con -dry-run solo valida el archivo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/kmuentes1145/act8/internal/application/usecase"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/infrastructure/memory"
	"github.com/kmuentes1145/act8/internal/infrastructure/postgres"
	"github.com/kmuentes1145/act8/pkg/config"
	"github.com/kmuentes1145/act8/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV está en ISO-8859-1")
	dryRun := flag.Bool("dry-run", false, "valida sin escribir en la base")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] [-dry-run] productos.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := ParseProducts(f, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := context.Background()

	var uc *usecase.ProductUseCase
	if *dryRun {
		// En seco se inserta en memoria: valida reglas y códigos duplicados sin tocar la base.
		uc = usecase.NewProductUseCase(memory.NewProductRepository(memory.NewStore()))
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		uc = usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	}

	var created, skipped int
	for _, row := range rows {
		p, err := uc.Create(ctx, row.Request)
		switch {
		case err == nil:
			created++
			log.Debug().Int64("id", p.ID).Str("nombre", p.Name).Msg("producto importado")
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDuplicate):
			skipped++
			log.Warn().Err(err).Int("linea", row.Line).Msg("fila omitida")
		default:
			log.Fatal().Err(err).Int("linea", row.Line).Msg("importación interrumpida")
		}
	}

	log.Info().
		Int("creados", created).
		Int("omitidos", skipped).
		Bool("dry_run", *dryRun).
		Msg("importación terminada")
}
