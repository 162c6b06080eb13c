// Package server reads the configuration of landmarksd.
package server

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// environment variables overriding the config file.
const (
	EnvDBURI          = "LANDMARKS_DB_URI"
	EnvSecret         = "LANDMARKS_SECRET"
	EnvMinioAccessKey = "MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "MINIO_SECRET_KEY"
	EnvKafkaBrokers   = "KAFKA_BROKERS"
)

type ServerConfig struct {
	// port to listen. default: 8000
	Port string `yaml:"port"`

	// connection string of the database
	DBURI string `yaml:"dbURI"`

	// path to the schema repository. When empty, schema version is not checked.
	SchemaRepository string `yaml:"schemaRepository"`

	Auth   AuthConfig   `yaml:"auth"`
	Media  MediaConfig  `yaml:"media"`
	Events EventsConfig `yaml:"events"`
}

type AuthConfig struct {
	// secret to sign tokens. required.
	Secret string `yaml:"secret"`

	// lifetimes of tokens, like "5m". default: 5m and 24h.
	AccessTokenLifetime  time.Duration `yaml:"accessTokenLifetime"`
	RefreshTokenLifetime time.Duration `yaml:"refreshTokenLifetime"`
}

const (
	MediaLocal = "local"
	MediaMinio = "minio"
)

type MediaConfig struct {
	// "local" or "minio". default: "local"
	Backend string `yaml:"backend"`

	// directory to store images, for "local". default: "./media"
	Root string `yaml:"root"`

	// URL path to serve images, for "local". default: "/media/"
	URLPrefix string `yaml:"urlPrefix"`

	Minio MinioConfig `yaml:"minio"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	PublicURL string `yaml:"publicURL"`
}

type EventsConfig struct {
	// kafka brokers. When empty, events are not published.
	Brokers []string `yaml:"brokers"`

	// default: "landmarks"
	Topic string `yaml:"topic"`
}

var ErrMissingSecret = errors.New("auth.secret (or " + EnvSecret + ") is required")

// LoadEnv loads .env files into environment variables.
//
// Missing files are ignored. Variables already set are not overwritten.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load reads the config file, and applies environment variables and defaults.
//
// When filepath is empty, only environment variables and defaults are used.
func Load(filepath string) (*ServerConfig, error) {
	content := []byte{}
	if filepath != "" {
		c, err := os.ReadFile(filepath)
		if err != nil {
			return nil, err
		}
		content = c
	}
	conf, err := Unmarshal(content)
	if err != nil {
		return nil, err
	}
	conf.applyEnv(os.LookupEnv)
	conf.applyDefaults()
	return conf, nil
}

// RequireSecret returns ErrMissingSecret when the secret to sign tokens is not set.
func (c *ServerConfig) RequireSecret() error {
	if c.Auth.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

func Unmarshal(conf []byte) (*ServerConfig, error) {
	var out ServerConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ServerConfig) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDBURI); ok && v != "" {
		c.DBURI = v
	}
	if v, ok := lookup(EnvSecret); ok && v != "" {
		c.Auth.Secret = v
	}
	if v, ok := lookup(EnvMinioAccessKey); ok && v != "" {
		c.Media.Minio.AccessKey = v
	}
	if v, ok := lookup(EnvMinioSecretKey); ok && v != "" {
		c.Media.Minio.SecretKey = v
	}
	if v, ok := lookup(EnvKafkaBrokers); ok && v != "" {
		brokers := []string{}
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Events.Brokers = brokers
	}
}

func (c *ServerConfig) applyDefaults() {
	if c.Port == "" {
		c.Port = "8000"
	}
	if c.Media.Backend == "" {
		c.Media.Backend = MediaLocal
	}
	if c.Media.Root == "" {
		c.Media.Root = "./media"
	}
	if c.Media.URLPrefix == "" {
		c.Media.URLPrefix = "/media/"
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "landmarks"
	}
}
