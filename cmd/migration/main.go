package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/nmadb/contacts/internal/config"
	"gitlab.com/nmadb/contacts/internal/logger"
	"gitlab.com/nmadb/contacts/internal/migrations"
	"gitlab.com/nmadb/contacts/internal/service"
	"go.uber.org/zap"
)

// Usage examples on the command line:
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go -direction=down -steps=1
// > DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go -file=seed.sql
func main() {
	directionPtr := flag.String("direction", "up", "the migration direction: up, down, or none to skip")
	stepsPtr := flag.Int("steps", 0, "the number of migrations to apply or roll back, 0 for all")
	filePtr := flag.String("file", "", "an sql file to execute after migrating, e.g. seed data")
	logLevelPtr := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(config.LogConfig{Level: *logLevelPtr, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if *directionPtr != "none" {
		migrator, err := migrations.New(cfg.Database.MigrationDSN(), log)
		if err != nil {
			log.Fatal("Failed to set up migrations", zap.Error(err))
		}
		runErr := migrator.Run(*directionPtr, *stepsPtr)
		if err := migrator.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
		if runErr != nil {
			log.Fatal("Migration failed", zap.Error(runErr))
		}
	}

	if *filePtr == "" {
		return
	}
	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		log.Fatal("Failed to open sql file", zap.Error(err))
	}
	defer readFile.Close()

	sqlDB, err := service.CreateDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	count, err := migrations.ExecScript(db, readFile)
	if err != nil {
		log.Fatal("Failed to execute sql file", zap.Error(err), zap.Int("executed", count))
	}
	log.Info("Executed sql file", zap.String("file", *filePtr), zap.Int("statements", count))
}
