// Package env resuelve la URL base de la API según el contexto de ejecución
// (render en servidor o cliente con configuración inyectada).
package env

import (
	"encoding/json"
	"strings"
	"sync"
)

const (
	// DefaultAPIPath es el valor usado cuando no hay API_URL configurada.
	DefaultAPIPath = "/api"
	// DefaultServerHost se antepone a rutas relativas si no hay overrides.
	DefaultServerHost = "http://localhost:8000"
	// InjectedGlobal es el nombre del global que el servidor inyecta en la página.
	InjectedGlobal = "__ENV__"
)

// EnvConfig es la única forma de configuración que consume la capa de API.
type EnvConfig struct {
	APIURL string `json:"API_URL"`
}

// LookupFunc tiene la firma de os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Window representa el global del navegador: si existe, estamos en el cliente.
type Window interface {
	// InjectedConfig devuelve el blob JSON embebido al renderizar, o nil.
	InjectedConfig() []byte
}

// ResolveServerConfig calcula la configuración en el servidor. Nunca falla.
func ResolveServerConfig(lookup LookupFunc) EnvConfig {
	configured := get(lookup, "API_URL")
	if configured == "" {
		configured = DefaultAPIPath
	}
	if isAbsolute(configured) {
		return EnvConfig{APIURL: configured}
	}
	if internal := get(lookup, "INTERNAL_API_URL"); internal != "" {
		return EnvConfig{APIURL: internal}
	}
	origin := get(lookup, "SITE_ORIGIN")
	if origin == "" {
		origin = get(lookup, "SITE_URL")
	}
	if origin != "" {
		return EnvConfig{APIURL: strings.TrimRight(origin, "/") + configured}
	}
	return EnvConfig{APIURL: DefaultServerHost + configured}
}

// ResolveClientConfig lee la configuración inyectada en la página.
// Si falta o está corrupta usa {API_URL: "/api"}.
func ResolveClientConfig(w Window) EnvConfig {
	if w == nil {
		return EnvConfig{APIURL: DefaultAPIPath}
	}
	return ParseInjected(w.InjectedConfig())
}

// ResolveConfig despacha según haya o no un global de navegador.
func ResolveConfig(w Window, lookup LookupFunc) EnvConfig {
	if w != nil {
		return ResolveClientConfig(w)
	}
	return ResolveServerConfig(lookup)
}

// ParseInjected decodifica el blob inyectado; acepta tanto el JSON crudo como
// el script completo generado por InjectScript.
func ParseInjected(raw []byte) EnvConfig {
	fallback := EnvConfig{APIURL: DefaultAPIPath}
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return fallback
	}
	if i := strings.Index(s, "{"); i > 0 {
		s = s[i:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	var cfg EnvConfig
	if err := json.Unmarshal([]byte(s), &cfg); err != nil || cfg.APIURL == "" {
		return fallback
	}
	return cfg
}

// InjectScript genera el script que publica la configuración en window.__ENV__.
func InjectScript(cfg EnvConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		data = []byte(`{"API_URL":"` + DefaultAPIPath + `"}`)
	}
	return "window." + InjectedGlobal + " = " + string(data) + ";"
}

// Resolver memoriza la primera resolución; el valor no cambia durante la vida
// del contexto que lo posee.
type Resolver struct {
	once   sync.Once
	window Window
	lookup LookupFunc
	cfg    EnvConfig
}

func NewResolver(w Window, lookup LookupFunc) *Resolver {
	return &Resolver{window: w, lookup: lookup}
}

func (r *Resolver) Config() EnvConfig {
	r.once.Do(func() {
		r.cfg = ResolveConfig(r.window, r.lookup)
	})
	return r.cfg
}

// StaticWindow es un Window con un blob fijo, útil para clientes no navegador.
type StaticWindow []byte

func (w StaticWindow) InjectedConfig() []byte { return w }

func get(lookup LookupFunc, key string) string {
	if lookup == nil {
		return ""
	}
	v, ok := lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}

func isAbsolute(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
