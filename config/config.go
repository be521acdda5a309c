// Package config loads the persisted environment store and process
// environment into an immutable Settings value that is handed to every
// component at startup.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// EnvPath is the location of the persisted environment store. The installer
// writes it, Load reads it, and a failed installation removes it again.
const EnvPath = ".env"

// Settings holds every site-wide configuration value sourced from the
// environment. The value is built once in main and passed explicitly; nothing
// mutates it after Load returns.
type Settings struct {
	AdminTheme string `envconfig:"ADMIN_THEME" default:"basic"`
	AppIsDebug bool   `envconfig:"APP_IS_DEBUG" default:"false"`

	CookieDomain string `envconfig:"COOKIE_DOMAIN" default:""`

	DBTablePrefix string `envconfig:"DB_TABLE_PREFIX" default:"g6_"`
	DBEngine      string `envconfig:"DB_ENGINE" default:""`
	DBUser        string `envconfig:"DB_USER" default:""`
	DBPassword    string `envconfig:"DB_PASSWORD" default:""`
	DBHost        string `envconfig:"DB_HOST" default:""`
	DBPort        int    `envconfig:"DB_PORT" default:"3306"`
	DBName        string `envconfig:"DB_NAME" default:""`
	DBCharset     string `envconfig:"DB_CHARSET" default:"utf8mb4"`

	IsResponsive bool `envconfig:"IS_RESPONSIVE" default:"true"`

	SessionCookieName string `envconfig:"SESSION_COOKIE_NAME" default:"session"`
	SessionSecretKey  string `envconfig:"SESSION_SECRET_KEY" default:""`

	SMTPServer   string `envconfig:"SMTP_SERVER" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"25"`
	SMTPUsername string `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`

	TimeZone string `envconfig:"TIME_ZONE" default:"Asia/Seoul"`

	UploadImageResize       bool `envconfig:"UPLOAD_IMAGE_RESIZE" default:"false"`
	UploadImageSizeLimit    int  `envconfig:"UPLOAD_IMAGE_SIZE_LIMIT" default:"20"`
	UploadImageResizeWidth  int  `envconfig:"UPLOAD_IMAGE_RESIZE_WIDTH" default:"1200"`
	UploadImageResizeHeight int  `envconfig:"UPLOAD_IMAGE_RESIZE_HEIGHT" default:"2800"`
	UploadImageQuality      int  `envconfig:"UPLOAD_IMAGE_QUALITY" default:"80"`

	UseAPI      bool `envconfig:"USE_API" default:"true"`
	UseTemplate bool `envconfig:"USE_TEMPLATE" default:"true"`

	CSRFSecret   string `envconfig:"CSRF_SECRET" default:""`
	CSRFDisabled bool   `envconfig:"CSRF_DISABLED" default:"false"`

	ServerPort string `envconfig:"SERVER_PORT" default:"8000"`

	CORSAllowOrigins     string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	CORSAllowCredentials bool   `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	CORSAllowMethods     string `envconfig:"CORS_ALLOW_METHODS" default:"*"`
	CORSAllowHeaders     string `envconfig:"CORS_ALLOW_HEADERS" default:"*"`
}

// Load reads the persisted environment store when present, then resolves
// Settings from the process environment. A missing store is not an error;
// the system is simply uninstalled.
func Load() (*Settings, error) {
	if _, err := os.Stat(EnvPath); err == nil {
		if err = godotenv.Load(EnvPath); err != nil {
			return nil, errors.Wrap(err, "reading environment store")
		}
	}

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, errors.Wrap(err, "processing environment")
	}
	return &s, nil
}

// Installed reports whether the persisted environment store exists.
func Installed() bool {
	_, err := os.Stat(EnvPath)
	return err == nil
}

// WriteEnvStore persists the supplied key/value pairs to the environment
// store, merging over whatever the store already holds.
func WriteEnvStore(values map[string]string) error {
	existing := map[string]string{}
	if _, err := os.Stat(EnvPath); err == nil {
		var err error
		existing, err = godotenv.Read(EnvPath)
		if err != nil {
			return errors.Wrap(err, "reading environment store")
		}
	}
	for k, v := range values {
		existing[k] = v
	}
	if err := godotenv.Write(existing, EnvPath); err != nil {
		return errors.Wrap(err, "writing environment store")
	}
	return nil
}

// RemoveEnvStore deletes the environment store, reverting the system to the
// uninstalled state. Removing an absent store is not an error.
func RemoveEnvStore() error {
	err := os.Remove(EnvPath)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing environment store")
	}
	return nil
}
