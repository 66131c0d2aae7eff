// Command seed replaces the stored profile and skills with the contents of
// about.json and skills.json.
//
//	seed [-data ./data] [-backups ./backups] [-yes] [-no-backup]
//
// When rows already exist the command asks for confirmation (unless -yes)
// and writes a timestamped JSON backup first (unless -no-backup).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-portfolio-backend/internal/config"
	"github.com/tbourn/go-portfolio-backend/internal/repo"
	"github.com/tbourn/go-portfolio-backend/internal/seed"
	"github.com/tbourn/go-portfolio-backend/internal/sysutil"
)

func main() {
	dataDir := flag.String("data", "data", "directory holding about.json and skills.json")
	backupDir := flag.String("backups", "backups", "directory for pre-seed backups")
	yes := flag.Bool("yes", false, "overwrite existing data without asking")
	noBackup := flag.Bool("no-backup", false, "skip the pre-seed backup")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	sysutil.SetupLogger(os.Stdout, cfg.LogLevel, true, "portfolio-seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg.DatabaseURL, *dataDir, *backupDir, *yes, !*noBackup)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, dsn, dataDir, backupDir string, yes, backup bool) error {
	data, err := seed.Load(dataDir)
	if err != nil {
		return err
	}
	for _, cat := range data.Skipped {
		log.Warn().Str("category", cat).Msg("skipping unknown skills category")
	}

	db, err := repo.Open(dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	profiles, skills, err := seed.Counts(ctx, db)
	if err != nil {
		return err
	}
	if profiles > 0 || skills > 0 {
		log.Warn().Int64("profiles", profiles).Int64("skills", skills).Msg("existing data found")
		if !yes && !confirm("This will overwrite existing data. Continue? (yes/no): ") {
			log.Info().Msg("seed cancelled")
			return nil
		}
		if backup {
			path, err := seed.Backup(ctx, db, backupDir, time.Now())
			if err != nil {
				return err
			}
			log.Info().Str("file", path).Msg("backup written")
		}
	}

	if err := seed.Apply(ctx, db, data); err != nil {
		return err
	}

	profiles, skills, err = seed.Counts(ctx, db)
	if err != nil {
		return err
	}
	if skills == 0 {
		log.Warn().Msg("no skills were stored")
	}
	log.Info().Int64("profiles", profiles).Int64("skills", skills).Msg("seed complete")
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return sysutil.IsTruthy(line)
}
