// ABOUTME: Migration tool that copies a CRM between Record Store backends
// ABOUTME: e.g. from the sqlite file into a badger directory, with backup and dry-run
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/crmboard/config"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/db"
	"github.com/harperreed/crmboard/kvstore"
	"github.com/harperreed/crmboard/logging"
	"go.uber.org/zap"
)

func main() {
	fromDriver := flag.String("from-driver", config.DriverSQLite, "Source store driver (sqlite or badger)")
	fromPath := flag.String("from", "", "Path to the source store")
	toDriver := flag.String("to-driver", config.DriverBadger, "Target store driver (sqlite or badger)")
	toPath := flag.String("to", "", "Path to the target store")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Create backup of a sqlite target before migration")
	force := flag.Bool("force", false, "Copy even if the target already holds records")
	flag.Parse()

	logger, err := logging.NewLogger("info")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if *fromPath == "" || *toPath == "" {
		logger.Fatal("both -from and -to are required")
	}

	opts := migrateOptions{
		fromDriver: *fromDriver, fromPath: *fromPath,
		toDriver: *toDriver, toPath: *toPath,
		dryRun: *dryRun, backup: *backup, force: *force,
	}
	if err := migrate(context.Background(), opts, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	logger.Info("migration completed successfully")
}

type migrateOptions struct {
	fromDriver, fromPath string
	toDriver, toPath     string
	dryRun, backup       bool
	force                bool
}

func migrate(ctx context.Context, opts migrateOptions, logger *zap.Logger) error {
	if _, err := os.Stat(opts.fromPath); os.IsNotExist(err) {
		return fmt.Errorf("source store does not exist: %s", opts.fromPath)
	}
	if opts.fromDriver == opts.toDriver && opts.fromPath == opts.toPath {
		return fmt.Errorf("source and target are the same store")
	}

	if opts.backup && !opts.dryRun && opts.toDriver == config.DriverSQLite {
		if err := backupFile(opts.toPath, logger); err != nil {
			return err
		}
	}

	src, err := openStore(opts.fromDriver, opts.fromPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = src.Close() }()

	// A dry run never touches the target, so nothing is created there.
	var dst crm.Store
	if !opts.dryRun {
		dst, err = openStore(opts.toDriver, opts.toPath, logger)
		if err != nil {
			return fmt.Errorf("failed to open target: %w", err)
		}
		defer func() { _ = dst.Close() }()
	}

	sum, err := crm.CopyStore(ctx, src, dst, opts.dryRun, opts.force)
	if err != nil {
		return err
	}

	if opts.dryRun {
		logger.Info("[DRY RUN] would copy", zap.Stringer("records", sum),
			zap.String("from", opts.fromPath), zap.String("to", opts.toPath))
		return nil
	}
	logger.Info("copied", zap.Stringer("records", sum),
		zap.String("from", opts.fromPath), zap.String("to", opts.toPath))
	return nil
}

func openStore(driver, path string, logger *zap.Logger) (crm.Store, error) {
	switch driver {
	case config.DriverSQLite:
		return db.Open(path)
	case config.DriverBadger:
		return kvstore.Open(kvstore.Options{Path: path, Logger: logger})
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// backupFile copies an existing sqlite target aside. A missing file needs no backup.
func backupFile(path string, logger *zap.Logger) error {
	input, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read target: %w", err)
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backupPath, input, 0644); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	logger.Info("backup created", zap.String("path", backupPath))
	return nil
}
