package infra

import (
	"fmt"

	"github.com/Alex01Dev/backend-gerencia/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate and
// then applies the idempotent SQL patches GORM tags cannot express.
//
// TranslateError is on so unique and foreign-key violations surface as
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and applies the schema patches.
// Integration tests call it directly against their container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs PostgreSQL DDL that GORM AutoMigrate cannot express.
// Every statement is guarded with IF NOT EXISTS so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Handles are compared case-insensitively at generation time; the
		// expression index backs that check at the storage level too.
		{"unique lower(nombre_usuario)",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_nombre_usuario_lower
			     ON usuarios (LOWER(nombre_usuario))`},
		{"unique lower(usuarios.correo_electronico)",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_correo_lower
			     ON usuarios (LOWER(correo_electronico))`},
		// Listing and account statements scan transactions by owner and date.
		{"transacciones (usuario_id, created_at)",
			`CREATE INDEX IF NOT EXISTS idx_transacciones_usuario_fecha
			     ON transacciones (usuario_id, created_at DESC)`},
		{"check transacciones.monto >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_transacciones_monto') THEN
    ALTER TABLE transacciones ADD CONSTRAINT chk_transacciones_monto CHECK (monto >= 0);
  END IF;
END $$`},
		{"check sucursales.capacidad_maxima > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sucursales_capacidad') THEN
    ALTER TABLE sucursales ADD CONSTRAINT chk_sucursales_capacidad CHECK (capacidad_maxima > 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
