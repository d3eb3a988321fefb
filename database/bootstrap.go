package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"farmhub/entities"
)

// Models lists every table, in migration order.
var Models = []any{
	&entities.Field{},
	&entities.Crop{},
	&entities.Worker{},
	&entities.TimelineActivity{},
	&entities.Resource{},
	&entities.FinancialTransaction{},
	&entities.Budget{},
	&entities.CropHealth{},
	&entities.Disease{},
	&entities.Weed{},
	&entities.WeedIssue{},
}

// Open connects with glebarez/sqlite (CGO-free) or postgres via pgx.
func Open(driver, dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(level)}

	var dial gorm.Dialector
	switch driver {
	case "", "sqlite":
		dial = sqlite.Open(dsn)
	case "postgres":
		dial = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
	db, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return db, nil
}

// Migrate runs the pre-migration fixups and then AutoMigrate.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	// must run before AutoMigrate creates the unique (farmer, crop_id) index
	n, err := dedupeCropHealth(db)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if n > 0 {
		log.Warn("removed duplicate crop health records", zap.Int64("rows", n))
	}
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// dedupeCropHealth keeps the newest record per (farmer, crop_id) on tables
// created before the unique index existed.
func dedupeCropHealth(db *gorm.DB) (int64, error) {
	m := db.Migrator()
	if !m.HasTable(&entities.CropHealth{}) {
		return 0, nil
	}
	if m.HasIndex(&entities.CropHealth{}, "idx_crop_health_farmer_crop") {
		return 0, nil
	}
	var rows int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`DELETE FROM crop_healths WHERE id NOT IN (
			SELECT MAX(id) FROM crop_healths GROUP BY farmer, crop_id
		)`)
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("dedupe crop_healths: %w", err)
	}
	return rows, nil
}
