package main

import (
	"flag"
	"fmt"
	"os"

	"vocabdeck/internal/app"
	"vocabdeck/internal/config"
	"vocabdeck/internal/repository/sqlstore"

	"go.uber.org/zap"
)

func main() {
	// Define subcommands
	decksCmd := flag.NewFlagSet("decks", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	backupCmd := flag.NewFlagSet("backup", flag.ExitOnError)
	restoreCmd := flag.NewFlagSet("restore", flag.ExitOnError)

	// Import flags
	importFile := importCmd.String("file", "", "JSON, XLSX or CSV file to import (required)")
	importDeck := importCmd.String("deck", "", "ID of the deck to append to")
	importTitle := importCmd.String("title", "", "Title of a new deck to create")
	importSheet := importCmd.String("sheet", "", "Worksheet to read (default: first sheet)")

	// Export flags
	exportDir := exportCmd.String("dir", ".", "Directory for the deck files")

	// Backup flags
	backupOutput := backupCmd.String("output", "", "Output file path (default: jp_vocab_data_plus_progress.json)")

	// Restore flags
	restoreInput := restoreCmd.String("input", "", "Backup file to restore (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	a, closeStore := openApp(cfg, logger)
	defer closeStore()

	switch os.Args[1] {
	case "decks":
		decksCmd.Parse(os.Args[2:])
		err = listDecks(a, os.Stdout)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			fmt.Println("Error: -file flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		err = importFileInto(a, importOptions{
			path:   *importFile,
			deckID: *importDeck,
			title:  *importTitle,
			sheet:  *importSheet,
		}, os.Stdout)

	case "export":
		exportCmd.Parse(os.Args[2:])
		err = exportDecks(a, *exportDir, os.Stdout)

	case "backup":
		backupCmd.Parse(os.Args[2:])
		err = writeBackup(a, *backupOutput, os.Stdout)

	case "restore":
		restoreCmd.Parse(os.Args[2:])
		if *restoreInput == "" {
			fmt.Println("Error: -input flag is required")
			restoreCmd.PrintDefaults()
			os.Exit(1)
		}
		err = restoreBackup(a, *restoreInput, os.Stdout)

	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		closeStore()
		os.Exit(1)
	}
}

// openApp connects to the configured store and loads the study data
func openApp(cfg *config.Config, logger *zap.Logger) (*app.App, func()) {
	dialect, err := sqlstore.DialectFor(cfg.Store.Driver)
	if err != nil {
		logger.Fatal("Unsupported store", zap.Error(err))
	}

	db, err := sqlstore.Open(dialect, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run migrations to ensure schema is up to date
	if err := sqlstore.Migrate(db, dialect, logger); err != nil {
		db.Close()
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	a, err := app.New(app.Options{
		Store:  sqlstore.NewKVRepo(db, dialect),
		Lang:   cfg.Lang,
		Seed:   cfg.RandomSeed,
		Logger: logger,
	})
	if err != nil {
		db.Close()
		logger.Fatal("Failed to load study data", zap.Error(err))
	}
	return a, func() { db.Close() }
}

func printUsage() {
	fmt.Println("vocabdeck command line tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vocabctl decks                List decks")
	fmt.Println("  vocabctl import [options]     Import a JSON, XLSX or CSV file")
	fmt.Println("  vocabctl export [options]     Write every deck as a JSON file")
	fmt.Println("  vocabctl backup [options]     Write the collection and progress")
	fmt.Println("  vocabctl restore [options]    Replace everything with a backup")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -file <path>     File to import (required)")
	fmt.Println("  -deck <id>       Append to an existing deck")
	fmt.Println("  -title <title>   Create a new deck")
	fmt.Println("  -sheet <name>    Worksheet of an XLSX file (default: first sheet)")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -dir <dir>       Output directory (default: .)")
	fmt.Println()
	fmt.Println("Backup Options:")
	fmt.Println("  -output <file>   Output file path (default: jp_vocab_data_plus_progress.json)")
	fmt.Println()
	fmt.Println("Restore Options:")
	fmt.Println("  -input <file>    Backup file (required)")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  STORE_DRIVER     sqlite or postgres (default: sqlite)")
	fmt.Println("  SQLITE_PATH      SQLite database path (default: data/vocabdeck.db)")
	fmt.Println("  DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD   PostgreSQL connection")
	fmt.Println("  APP_LANG         Language of generated deck titles: en, vi or ja")
}
