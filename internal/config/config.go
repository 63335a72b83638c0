package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del proceso web.
type Config struct {
	HTTPPort       string `env:"HTTP_PORT" envDefault:"3000"`
	APIURL         string `env:"API_URL" envDefault:"/api"`
	InternalAPIURL string `env:"INTERNAL_API_URL"`
	SiteOrigin     string `env:"SITE_ORIGIN"`
	SiteURL        string `env:"SITE_URL"`

	VisitorSecret    string `env:"VISITOR_SECRET"`
	VisitorTTLHours  int    `env:"VISITOR_TTL_HOURS" envDefault:"720"`
	CookieSecure     bool   `env:"COOKIE_SECURE" envDefault:"false"`
	LoginMaxAttempts int    `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindowMin   int    `env:"LOGIN_WINDOW_MINUTES" envDefault:"10"`
	ReadyWaitMS      int    `env:"SESSION_READY_WAIT_MS" envDefault:"1500"`
	SessionIdleMin   int    `env:"SESSION_IDLE_MINUTES" envDefault:"30"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionDir string `env:"HACKHUB_SESSION_DIR"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Lookup expone la configuración cargada con la misma firma que os.LookupEnv,
// para que el resolver de entorno no dependa del proceso.
func (c *Config) Lookup(key string) (string, bool) {
	var v string
	switch key {
	case "API_URL":
		v = c.APIURL
	case "INTERNAL_API_URL":
		v = c.InternalAPIURL
	case "SITE_ORIGIN":
		v = c.SiteOrigin
	case "SITE_URL":
		v = c.SiteURL
	}
	return v, v != ""
}
