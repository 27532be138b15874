package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/plm/internal/adapters/filesystem"
	"github.com/felixgeelhaar/plm/internal/adapters/logging"
	"github.com/felixgeelhaar/plm/internal/app"
	"github.com/felixgeelhaar/plm/internal/domain/config"
	"github.com/felixgeelhaar/plm/internal/domain/placement"
	"github.com/felixgeelhaar/plm/internal/domain/plugin"
	"github.com/felixgeelhaar/plm/internal/domain/target"
	"github.com/felixgeelhaar/plm/internal/ports"
	"github.com/felixgeelhaar/plm/internal/ui"
)

// environment is everything a command needs, resolved from flags,
// the environment and the config file.
type environment struct {
	fs         ports.FileSystem
	store      *config.Store
	configPath string
	cfg        *config.Config
	roots      placement.Roots
	cacheDir   string
	logger     ports.Logger
	styles     ui.Styles
}

func loadEnvironment() (*environment, error) {
	fs := filesystem.NewRealFileSystem()
	paths := config.ResolvePaths(os.Getenv)

	configPath := cfgFile
	if configPath == "" {
		configPath = paths.ConfigFile
	}

	store := config.NewStore(fs)
	cfg, err := store.Load(configPath)
	if err != nil {
		return nil, err
	}

	roots, err := resolveRoots()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	return &environment{
		fs:         fs,
		store:      store,
		configPath: configPath,
		cfg:        cfg,
		roots:      roots,
		cacheDir:   cfg.ResolveCacheDir(roots.Home, paths.CacheDir),
		logger:     logger,
		styles:     ui.StylesFor(os.Stdout, noColor),
	}, nil
}

func resolveRoots() (placement.Roots, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return placement.Roots{}, fmt.Errorf("resolving home directory: %w", err)
	}

	project := projectDir
	if project == "" {
		project, err = os.Getwd()
		if err != nil {
			return placement.Roots{}, fmt.Errorf("resolving working directory: %w", err)
		}
	}
	project, err = filepath.Abs(ports.ExpandPath(project, home))
	if err != nil {
		return placement.Roots{}, fmt.Errorf("resolving project root: %w", err)
	}
	return placement.Roots{Home: filepath.Clean(home), Project: project}, nil
}

func newLogger(cfg config.LogConfig) (ports.Logger, error) {
	level, err := ports.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = ports.LevelDebug
	}

	format := cfg.Format
	if logFormat != "" {
		format = logFormat
	}
	switch format {
	case "", config.LogFormatText, config.LogFormatJSON:
	default:
		return nil, config.NewUserError(config.ErrCodeValidationFailed, "unknown log format "+format).
			WithSuggestion("use --log-format text or --log-format json")
	}

	return logging.New(
		logging.WithLevel(level),
		logging.WithJSONFormat(format == config.LogFormatJSON),
		logging.WithTimestamp(format == config.LogFormatJSON),
		logging.WithNoColor(noColor || !ui.IsTerminal(os.Stderr)),
	), nil
}

// manager builds the application over the enabled targets.
func (e *environment) manager() (*app.Manager, error) {
	targets, err := target.Resolve(e.fs, e.cfg.Targets)
	if err != nil {
		return nil, err
	}
	cache := plugin.NewCache(e.fs, e.cacheDir)
	return app.NewManager(e.fs, cache, e.roots, targets).WithLogger(e.logger), nil
}

// save writes the config back to where it was loaded from.
func (e *environment) save() error {
	return e.store.Save(e.configPath, e.cfg)
}
