package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/actualize/actualize/internal/catalog"
	"github.com/actualize/actualize/internal/config"
	"github.com/actualize/actualize/internal/logger"
	"github.com/actualize/actualize/internal/practice"
	"github.com/actualize/actualize/internal/progress"
	"github.com/actualize/actualize/internal/store"
)

// env holds what a command needs once the database is open.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *store.Store
	catalog  *catalog.Catalog
	progress *progress.Store
	dbPath   string
}

// envOptions controls how openEnv sets things up.
type envOptions struct {
	// logToFile sends log output beside the database instead of stderr.
	logToFile bool
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	configFile, _ := cmd.Flags().GetString("config")
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openEnv loads configuration, opens the store and loads the student's state.
// Callers must Close the returned env.
func openEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	var log *zap.Logger
	if opts.logToFile {
		logPath := cfg.Log.File
		if logPath == "" {
			logPath = filepath.Join(filepath.Dir(dbPath), "actualize.log")
		}
		log, err = logger.NewFile(cfg, logPath)
	} else {
		log, err = logger.New(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	db, err := store.Open(dbPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	ps := progress.NewStore(db.StateRepo(),
		progress.WithLogger(log),
		progress.WithTotalLessons(cfg.TotalLessons),
	)
	if err := ps.Load(cmd.Context()); err != nil {
		_ = db.Close()
		_ = log.Sync()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	log.Debug("environment ready", zap.String("db", dbPath), zap.Int("lessons", cfg.TotalLessons))

	return &env{
		cfg:      cfg,
		logger:   log,
		db:       db,
		catalog:  cat,
		progress: ps,
		dbPath:   dbPath,
	}, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		cat, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
	}
	return cat, nil
}

// newEngine builds a practice engine whose setup starts from the configured
// variant and the student's extended-time setting.
func (e *env) newEngine(ctx context.Context) *practice.Engine {
	engine := practice.NewEngine(e.catalog, e.progress,
		practice.WithLogger(e.logger),
		practice.WithContext(ctx),
	)
	engine.Configure(practice.Setup{
		Mode:         practice.ModeStudy,
		Variant:      e.cfg.Variant(),
		ExtendedTime: e.progress.Snapshot().User.Settings.ExtendedTime,
	})
	return engine
}

func (e *env) Close() {
	if err := e.db.Close(); err != nil {
		e.logger.Warn("close store", zap.Error(err))
	}
	_ = e.logger.Sync()
}
