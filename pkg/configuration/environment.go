package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mattackal/family-onboarding/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

type GenealogyOptions struct {
	BaseURL string        `env:"GENEALOGY_API_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"GENEALOGY_API_TIMEOUT" envDefault:"15s"`
}

type SessionStoreOptions struct {
	Driver   string        `env:"SESSION_STORE" envDefault:"file"` // memory, file or redis
	FilePath string        `env:"SESSION_STORE_PATH" envDefault:"./data/sessions"`
	RedisURL string        `env:"SESSION_STORE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	TTL      time.Duration `env:"SESSION_STORE_TTL" envDefault:"168h"`
}

func (s *SessionStoreOptions) Validate() error {
	switch s.Driver {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("session store driver must be 'memory', 'file' or 'redis', got '%s'", s.Driver)
	}
	if s.Driver == "file" && s.FilePath == "" {
		return fmt.Errorf("session store FilePath is required when driver is 'file'")
	}
	if s.Driver == "redis" && s.RedisURL == "" {
		return fmt.Errorf("session store RedisURL is required when driver is 'redis'")
	}
	return nil
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"family-onboarding"`
}

type Configuration struct {
	Genealogy     GenealogyOptions
	SessionStore  SessionStoreOptions
	OpenTelemetry OpenTelemetryOptions

	ServerPort       int           `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string        `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string        `env:"-"`
	Domain           string        `env:"DOMAIN" envDefault:"localhost"`
	AllowedOrigins   string        `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string        `env:"LOG_PATH" envDefault:"./logs/app.log"`
	HeadSearchDelay  time.Duration `env:"HEAD_SEARCH_DEBOUNCE" envDefault:"250ms"`
	MaxPhotoSize     int64         `env:"MAX_PHOTO_SIZE" envDefault:"5242880"`

	// Looked up in the request; a random uuidv4 is generated when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	// Looked up in the request; request.RemoteAddr is used when absent.
	RealIPHeader string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`
	// Session ID cookie key
	SidCookieKey string `env:"SID_COOKIE_KEY" envDefault:"sid"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) Scheme() string {
	if c.GoAppEnvironment == Production {
		return "https"
	}
	return "http"
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	if err := c.SessionStore.Validate(); err != nil {
		return fmt.Errorf("session store configuration error: %w", err)
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
