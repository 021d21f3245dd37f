package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gavelworks/clerkpipe/internal/api"
	"github.com/gavelworks/clerkpipe/internal/flow"
	"github.com/gavelworks/clerkpipe/internal/history"
	"github.com/gavelworks/clerkpipe/internal/lockfile"
	"github.com/gavelworks/clerkpipe/internal/roster"
	"github.com/gavelworks/clerkpipe/internal/schema"
	"github.com/gavelworks/clerkpipe/internal/util"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for ClerkPipe state data
	DefaultStateDir = "/var/lib/clerkpipe"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "clerkpipe.db"
)

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	// Acquire the state directory lock before opening any store.
	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	store, err := openStore(flags)
	if err != nil {
		slog.Error("Failed to open history store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	sch, err := loadSchema(flags)
	if err != nil {
		slog.Error("Failed to load flow schema", "error", err)
		os.Exit(1)
	}

	dir, err := loadDirectory(flags)
	if err != nil {
		slog.Error("Failed to load committee directory", "error", err)
		os.Exit(1)
	}

	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}

	slog.Info("Bootstrapping ClerkPipe",
		"flows", len(sch.Flows), "starting_points", len(sch.StartingPoints), "api_addr", *flags.apiAddr)
	server := api.NewServer(flow.NewEngine(sch, dir), history.NewService(store), dir, apiOpts...)
	if err := server.Run(); err != nil {
		slog.Error("ClerkPipe failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("ClerkPipe exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL string
	StateDir    string
	SchemaPath  string
	RosterPath  string
	Committees  string
	APIAddr     string
	Debug       bool
}

// Flags holds command line flag values
type Flags struct {
	stateDir   *string
	dbDSN      *string
	schemaPath *string
	rosterPath *string
	committees *string
	apiAddr    *string
}

// initializeLogger sets up structured logging; CLERKPIPE_DEBUG raises the level
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("CLERKPIPE_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		StateDir:    os.Getenv("CLERKPIPE_STATE_DIR"),
		SchemaPath:  os.Getenv("CLERKPIPE_SCHEMA"),
		RosterPath:  os.Getenv("CLERKPIPE_ROSTER"),
		Committees:  os.Getenv("CLERKPIPE_COMMITTEES"),
		APIAddr:     os.Getenv("API_ADDR"),
	}

	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No CLERKPIPE_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"CLERKPIPE_STATE_DIR", config.StateDir,
		"CLERKPIPE_SCHEMA", config.SchemaPath,
		"CLERKPIPE_ROSTER", config.RosterPath,
		"CLERKPIPE_COMMITTEES", config.Committees,
		"API_ADDR", config.APIAddr)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:   flag.String("state-dir", config.StateDir, "state directory for ClerkPipe data (overrides $CLERKPIPE_STATE_DIR)"),
		dbDSN:      flag.String("db-dsn", config.DatabaseURL, "database DSN for the history store (overrides $DATABASE_URL)"),
		schemaPath: flag.String("schema", config.SchemaPath, "flow schema file, JSON or YAML (overrides $CLERKPIPE_SCHEMA)"),
		rosterPath: flag.String("roster", config.RosterPath, "legislative roster feed XML file (overrides $CLERKPIPE_ROSTER)"),
		committees: flag.String("committees", config.Committees, "committee directory file, JSON or YAML (overrides $CLERKPIPE_COMMITTEES)"),
		apiAddr:    flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"schema", *flags.schemaPath,
		"roster", *flags.rosterPath,
		"committees", *flags.committees,
		"apiAddr", *flags.apiAddr)

	// Update database DSN if not explicitly set but state directory is provided
	if *flags.dbDSN == config.DatabaseURL && config.DatabaseURL == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if err := os.MkdirAll(*flags.stateDir, 0755); err != nil {
		slog.Error("Failed to create state directory", "error", err, "state_dir", *flags.stateDir)
		return err
	}
	if isFileDSN(*flags.dbDSN) {
		dbDir := filepath.Dir(*flags.dbDSN)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			slog.Error("Failed to create database directory", "error", err, "db_dir", dbDir)
			return err
		}
	}
	return nil
}

// isFileDSN reports whether the DSN is a SQLite file path rather than a
// PostgreSQL connection string.
func isFileDSN(dsn string) bool {
	return !strings.Contains(dsn, "postgres://") && !strings.Contains(dsn, "postgresql://") && !strings.Contains(dsn, "host=")
}

// openStore selects the history store backend from the DSN.
func openStore(flags Flags) (history.Store, error) {
	if isFileDSN(*flags.dbDSN) {
		slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
		return history.NewSQLiteStore(history.WithDSN(*flags.dbDSN))
	}
	slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_set", true)
	return history.NewPostgresStore(history.WithDSN(*flags.dbDSN))
}

// loadSchema loads the flow schema from file or falls back to the built-in one.
func loadSchema(flags Flags) (*schema.Schema, error) {
	if *flags.schemaPath == "" {
		slog.Debug("No schema file configured, using built-in flows")
		return schema.Default(), nil
	}
	return schema.LoadFile(*flags.schemaPath)
}

// loadDirectory assembles the committee directory, optionally backed by a
// roster feed for member-number resolution.
func loadDirectory(flags Flags) (*roster.Directory, error) {
	var members []roster.Member
	if *flags.rosterPath != "" {
		var err error
		members, err = roster.LoadFeedFile(*flags.rosterPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Roster feed loaded", "members", len(members))
	}
	if *flags.committees == "" {
		slog.Debug("No committee directory configured, using built-in committees")
		return roster.DefaultDirectory(members), nil
	}
	return roster.LoadDirectoryFile(*flags.committees, members)
}
