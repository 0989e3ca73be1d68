// cmd/seeduser/main.go: crea el supervisor de demo y un inventario minimo.
// Uso: go run ./cmd/seeduser
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Drozast/restaurant-management-system-sub000/internal/apierror"
	"github.com/Drozast/restaurant-management-system-sub000/internal/config"
	"github.com/Drozast/restaurant-management-system-sub000/internal/dto"
	"github.com/Drozast/restaurant-management-system-sub000/internal/event"
	"github.com/Drozast/restaurant-management-system-sub000/internal/infra"
	"github.com/Drozast/restaurant-management-system-sub000/internal/repository"
	"github.com/Drozast/restaurant-management-system-sub000/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type ingredienteDemo struct {
	nombre, unidad, categoria string
	total                     int64
}

var demo = []ingredienteDemo{
	{"Masa", "g", "masas", 20000},
	{"Salsa de tomate", "ml", "salsas", 5000},
	{"Salsa BBQ", "ml", "salsas", 3000},
	{"Mozzarella", "g", "quesos", 10000},
	{"Pepperoni", "g", "carnes", 4000},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	ctx := context.Background()

	usuarios := repository.NewUsuarioRepository(db)
	ingredientes := repository.NewIngredienteRepository(db)
	alertas := service.NewAlertaService(repository.NewAlertaRepository(db))
	auth := service.NewAuthService(usuarios, cfg)
	inventario := service.NewInventarioService(ingredientes, repository.NewTurnoRepository(db),
		repository.NewMovimientoRepository(db), alertas, event.Nop)
	recetas := service.NewRecetaService(repository.NewRecetaRepository(db), ingredientes)

	rut := envOr("SEED_RUT", "11111111-1")
	password := envOr("SEED_PASSWORD", "supervisor123")
	_, err = auth.CrearUsuario(ctx, dto.CrearUsuarioRequest{
		RUT: rut, Nombre: "Supervisor Demo", Password: password, Rol: "supervisor",
	})
	if err != nil && apierror.KindOf(err) != apierror.KindConflict {
		log.Fatal().Err(err).Msg("crear usuario")
	}
	fmt.Printf("Usuario %s listo (password %s)\n", rut, password)

	ids := make(map[string]string)
	for _, d := range demo {
		ing, err := inventario.CrearIngrediente(ctx, dto.CrearIngredienteRequest{
			Nombre: d.nombre, Unidad: d.unidad, Categoria: d.categoria,
			CantidadTotal: decimal.NewFromInt(d.total),
		})
		if err != nil {
			if apierror.KindOf(err) == apierror.KindConflict {
				log.Info().Str("nombre", d.nombre).Msg("ingrediente ya existe")
				continue
			}
			log.Fatal().Err(err).Str("nombre", d.nombre).Msg("crear ingrediente")
		}
		ids[d.nombre] = ing.ID.String()
	}
	if len(ids) < len(demo) {
		return
	}

	tamano := "M"
	receta, err := recetas.CrearReceta(ctx, dto.CrearRecetaRequest{
		Nombre: "Pizza Pepperoni",
		Tamano: &tamano,
		Ingredientes: []dto.RecetaLineaRequest{
			{IngredienteID: ids["Masa"], Cantidad: decimal.NewFromInt(250)},
			{IngredienteID: ids["Salsa de tomate"], Cantidad: decimal.NewFromInt(80)},
			{IngredienteID: ids["Salsa BBQ"], Cantidad: decimal.NewFromInt(60)},
			{IngredienteID: ids["Mozzarella"], Cantidad: decimal.NewFromInt(150)},
			{IngredienteID: ids["Pepperoni"], Cantidad: decimal.NewFromInt(60)},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear receta")
	}
	fmt.Printf("Receta %q creada: %s\n", receta.Nombre, receta.ID)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
