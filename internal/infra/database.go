package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Drozast/restaurant-management-system-sub000/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewDatabase opens the store, runs AutoMigrate for every model and applies
// the idempotent patches GORM cannot express (partial unique indexes).
//
// SQLite (CGO-free glebarez driver) is the default embedded store. It is
// opened with a single connection: the engine is single-writer and every
// logical operation runs in one transaction on that connection.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if db.Dialector.Name() == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		for _, pragma := range []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA busy_timeout = 5000",
			"PRAGMA journal_mode = WAL",
		} {
			if err := db.Exec(pragma).Error; err != nil {
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates every table, applies schema patches and
// seeds the badge catalog. Safe to re-run.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Ingrediente{},
		&model.MovimientoInventario{},
		&model.Receta{},
		&model.RecetaIngrediente{},
		&model.Turno{},
		&model.TareaTurno{},
		&model.MiseEnPlace{},
		&model.Venta{},
		&model.Alerta{},
		&model.ChecklistCompletado{},
		&model.ReporteTurno{},
		&model.LogroSemanal{},
		&model.PuntosEmpleado{},
		&model.Insignia{},
		&model.InsigniaEmpleado{},
		&model.HistorialPremio{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return seedInsignias(db)
}

// applySchemaPatches creates the partial unique indexes that back the
// engine's singleton rules. The syntax is valid on both SQLite and PostgreSQL.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// at most one open shift
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_turnos_un_abierto
		    ON turnos (estado) WHERE estado = 'abierto'`,
		// at most one unresolved alert per ingredient in the global scope,
		// and per (ingredient, shift) in the mise en place scope
		`DROP INDEX IF EXISTS idx_alertas_activa`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alertas_activa_global
		    ON alertas (ingrediente_id) WHERE resuelta = false AND ambito = 'global'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alertas_activa_mise
		    ON alertas (ingrediente_id, turno_id) WHERE resuelta = false AND ambito = 'mise_en_place'`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

func seedInsignias(db *gorm.DB) error {
	catalogo := model.InsigniasPorDefecto()
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "codigo"}},
		DoNothing: true,
	}).Create(&catalogo).Error
}
