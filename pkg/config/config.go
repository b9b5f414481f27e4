package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (Viper: env vars y opcionalmente archivo).
type Config struct {
	App  AppConfig
	JWT  JWTConfig
	HTTP HTTPConfig
	NFE  NFEConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NFEConfig parámetros del armado NF-e y de la carga de certificados.
type NFEConfig struct {
	UFCode        string // cUF fijo; vacío = derivar de la UF de la empresa
	Model         string // 55
	Timezone      string // nombre IANA; vacío = zona del proceso
	CertPath      string // ruta por defecto del .pfx si la empresa no trae una
	CertPassword  string // contraseña del .pfx por defecto; nunca se loguea
	CertWorkers   int
	CertTimeout   int // segundos
	DefaultSeries int
}

// Location resuelve Timezone. Vacío devuelve time.Local.
func (c NFEConfig) Location() (*time.Location, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: NFE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// CertTimeoutDuration timeout por carga de certificado.
func (c NFEConfig) CertTimeoutDuration() time.Duration {
	return time.Duration(c.CertTimeout) * time.Second
}

// Load lee la configuración. Las env vars tienen prioridad sobre .env / config.env.
// Nombres esperados: APP_ENV, HTTP_PORT, JWT_SECRET, NFE_UF_CODE, NFE_CERT_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "nfe-emissor"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "nfe-emissor"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		NFE: NFEConfig{
			UFCode:        getString(v, "NFE_UF_CODE", "25"),
			Model:         getString(v, "NFE_MODEL", "55"),
			Timezone:      getString(v, "NFE_TIMEZONE", ""),
			CertPath:      getString(v, "NFE_CERT_PATH", ""),
			CertPassword:  getString(v, "NFE_CERT_PASSWORD", ""),
			CertWorkers:   getInt(v, "NFE_CERT_WORKERS", 4),
			CertTimeout:   getInt(v, "NFE_CERT_TIMEOUT_SECONDS", 5),
			DefaultSeries: getInt(v, "NFE_DEFAULT_SERIES", 1),
		},
	}
	if err := cfg.NFE.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c NFEConfig) validate() error {
	if c.UFCode != "" && (len(c.UFCode) != 2 || strings.Trim(c.UFCode, "0123456789") != "") {
		return fmt.Errorf("config: NFE_UF_CODE %q debe tener 2 dígitos", c.UFCode)
	}
	if c.CertWorkers < 1 {
		return fmt.Errorf("config: NFE_CERT_WORKERS debe ser >= 1")
	}
	if c.DefaultSeries < 1 || c.DefaultSeries > 999 {
		return fmt.Errorf("config: NFE_DEFAULT_SERIES fuera de 1..999")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
