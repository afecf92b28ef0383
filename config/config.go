package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	CORS    CORSConfig    `yaml:"cors"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address for the http server.
func (s ServerConfig) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}

type MongoConfig struct {
	URI              string        `yaml:"uri"`
	Database         string        `yaml:"database"`
	Collection       string        `yaml:"collection"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
}

// KafkaConfig 는 블로그 라이프사이클 이벤트 발행 설정이다.
// BootstrapServers 가 비어 있으면 이벤트 발행을 하지 않는다.
type KafkaConfig struct {
	BootstrapServers string `yaml:"bootstrap_servers"`
	TopicPrefix      string `yaml:"topic_prefix"`
	Partitions       int    `yaml:"partitions"`
}

func (k KafkaConfig) Enabled() bool {
	return strings.TrimSpace(k.BootstrapServers) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

var (
	mu     sync.Mutex
	config *AppConfig
)

// Default returns the configuration used when config.yaml omits a value.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			URI:              "mongodb://localhost:27017",
			Database:         "blog",
			Collection:       "blogs",
			ConnectTimeout:   10 * time.Second,
			OperationTimeout: 5 * time.Second,
		},
		Kafka: KafkaConfig{
			TopicPrefix: "blog-api",
			Partitions:  1,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// InitApp loads .env and config.yaml (if present) and applies environment overrides.
func InitApp() error {
	base := GetBasePath()
	// .env is optional
	_ = godotenv.Load(filepath.Join(base, ENV_FILE))

	c, err := Load(filepath.Join(base, CONFIG_FILE))
	if err != nil {
		return err
	}

	mu.Lock()
	config = &c
	mu.Unlock()
	return nil
}

// Load reads the yaml file at path on top of Default and applies env overrides.
// A missing file is not an error.
func Load(path string) (AppConfig, error) {
	c := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return AppConfig{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return AppConfig{}, err
	}

	applyEnv(&c)
	return c, nil
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB_NAME"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("MONGO_COLLECTION"); v != "" {
		c.Mongo.Collection = v
	}
	if v := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); v != "" {
		c.Kafka.BootstrapServers = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func GetConfig() AppConfig {
	mu.Lock()
	loaded := config != nil
	mu.Unlock()
	if !loaded {
		if err := InitApp(); err != nil {
			panic(err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd
}
