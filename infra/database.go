package infra

import (
	"fmt"
	"log"
	"time"

	"github.com/tnqbao/gau-bucket-list/config"
	"github.com/tnqbao/gau-bucket-list/entity"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DatabaseClient struct {
	DB *gorm.DB
}

// InitDatabaseClient opens the configured store and creates the schema.
// It returns nil for the memory driver.
func InitDatabaseClient(cfg *config.EnvConfig) *DatabaseClient {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Println("Using in-memory bucket item store")
		return nil
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		panic(fmt.Sprintf("Unsupported DB_DRIVER: %q", cfg.Database.Driver))
	}

	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		log.Fatalf("Database connection failed (%s): %v", cfg.Database.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := MigrateSchema(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	log.Printf("Connected to %s database", cfg.Database.Driver)

	return &DatabaseClient{DB: db}
}

// MigrateSchema creates or updates the bucket_items table.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(&entity.BucketItem{})
}

func (d *DatabaseClient) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
