package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fadedpez/thegame/internal/logging"
	"github.com/fadedpez/thegame/pkg/db/migrations"
	_ "github.com/mattn/go-sqlite3"
)

// sqlDir holds the results schema embedded into the thegame binary
const sqlDir = "pkg/db/migrations/sql"

const migrationTemplate = `
-- Runs against the game_results table used by STORAGE_TYPE=sqlite.
-- Files in ` + sqlDir + ` are embedded at build time, so rebuild thegame
-- after adding one. Example:
--
-- ALTER TABLE game_results ADD COLUMN seed INTEGER;
-- CREATE INDEX IF NOT EXISTS idx_game_results_turns ON game_results(turns);

`

var logger = logging.Default

func main() {
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	createDir := createCmd.String("dir", sqlDir, "where the new migration is written")

	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := migrateCmd.String("db", filepath.Join("data", "thegame.db"), "results database, DATA_DIR/thegame.db")
	migrateDir := migrateCmd.String("dir", "", "apply files from this directory instead of the embedded schema")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		createCmd.Parse(os.Args[2:])
		if createCmd.NArg() < 1 {
			fmt.Println("Error: a description of the schema change is required")
			createCmd.Usage()
			os.Exit(1)
		}
		create(*createDir, createCmd.Arg(0))

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		migrate(*dbPath, *migrateDir)

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Manage the SQLite schema that stores finished games of The Game.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  migration create [-dir DIR] DESCRIPTION   add a numbered .sql file for a results schema change")
	fmt.Println("  migration migrate [-db PATH] [-dir DIR]   bring a results database up to date")
	fmt.Println("  migration help                            show this help")
	fmt.Println()
	fmt.Println("thegame applies the embedded schema itself when it opens the database;")
	fmt.Println("migrate is for preparing or upgrading a database ahead of time.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  migration create \"add seed to game results\"")
	fmt.Println("  migration migrate -db /var/lib/thegame/thegame.db")
}

func create(dir, description string) {
	path, err := migrations.CreateMigration(dir, description)
	if err != nil {
		fatal("Error creating migration: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fatal("Error opening migration file: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(migrationTemplate); err != nil {
		fatal("Error writing migration file: %v", err)
	}

	fmt.Printf("Created %s\n", path)
}

func migrate(dbPath, dir string) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		fatal("Error creating database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		fatal("Error opening database: %v", err)
	}
	defer db.Close()

	migrator := migrations.NewEmbeddedMigrator(db)
	if dir != "" {
		migrator = migrations.NewDirMigrator(db, dir)
	}

	applied, err := migrator.MigrateUp()
	if err != nil {
		fatal("Error applying migrations: %v", err)
	}

	fmt.Printf("Applied %d migration(s) to %s\n", applied, dbPath)
}

func fatal(format string, v ...interface{}) {
	logger.Error(format, v...)
	os.Exit(1)
}
