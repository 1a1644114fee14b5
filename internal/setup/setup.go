package setup

import (
	"fmt"
	"log"
	"time"

	"github.com/robalyx/interactivity/internal/redis"
	"github.com/robalyx/interactivity/internal/setup/config"
	"github.com/robalyx/interactivity/internal/setup/logger"
	"github.com/robalyx/interactivity/pkg/utils"
	"go.uber.org/zap"
)

// Options override parts of the loaded configuration.
type Options struct {
	// ConfigDir is searched for bot.toml instead of the default paths.
	ConfigDir string
	// LogDir receives the session log directories.
	LogDir string
	// LogLevel replaces the configured log level when set.
	LogLevel string
}

// App bundles the dependencies of the example bot.
type App struct {
	Config       *config.Config  // Application configuration
	ConfigDir    string          // Directory the config was loaded from
	Logger       *zap.Logger     // Main application logger
	LogManager   *logger.Manager // Session log management
	RedisManager *redis.Manager  // Redis connection manager, nil when Redis is disabled
}

// InitializeApp loads the configuration and starts logging.
func InitializeApp(opts Options) (*App, error) {
	cfg, configDir, err := config.LoadConfig(opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	if opts.LogLevel != "" {
		cfg.Bot.Debug.LogLevel = opts.LogLevel
	}

	logManager := logger.NewManager(opts.LogDir, &cfg.Bot.Debug)
	mainLogger, err := logManager.GetLogger("main")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize main logger: %w", err)
	}

	var redisManager *redis.Manager
	if cfg.Bot.Redis.Enabled {
		redisManager = redis.NewManager(&cfg.Bot.Redis, mainLogger)
	}

	mainLogger.Info("Application initialized",
		zap.String("configDir", configDir),
		zap.String("sessionDir", logManager.SessionDir()),
		zap.Bool("redis", redisManager != nil))

	return &App{
		Config:       cfg,
		ConfigDir:    configDir,
		Logger:       mainLogger,
		LogManager:   logManager,
		RedisManager: redisManager,
	}, nil
}

// RetryOptions returns the configured retries of delayed deletions.
func (a *App) RetryOptions() utils.RetryOptions {
	retry := a.Config.Bot.Interactivity.Retry
	return utils.RetryOptions{
		MaxElapsedTime:  time.Duration(retry.MaxElapsed) * time.Millisecond,
		InitialInterval: time.Duration(retry.Delay) * time.Millisecond,
		MaxInterval:     time.Duration(retry.MaxDelay) * time.Millisecond,
		MaxRetries:      retry.MaxRetries,
	}
}

// Cleanup shuts the components down in reverse initialization order.
// Logs but does not fail on cleanup errors.
func (a *App) Cleanup() {
	// Sync errors on terminals are expected
	_ = a.Logger.Sync()

	// Redis closes before the log files so its shutdown is still logged
	if a.RedisManager != nil {
		a.RedisManager.Close()
	}

	if err := a.LogManager.Close(); err != nil {
		log.Printf("Failed to close log files: %v", err)
	}
}
