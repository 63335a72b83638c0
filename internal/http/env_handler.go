package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hackhub-web/internal/env"
)

// EnvHandler publica la configuración del cliente.
type EnvHandler struct {
	public env.EnvConfig
}

// NewEnvHandler recibe la configuración que ve el navegador, no la que usa
// el servidor para llamar a la API.
func NewEnvHandler(public env.EnvConfig) *EnvHandler {
	if public.APIURL == "" {
		public.APIURL = env.DefaultAPIPath
	}
	return &EnvHandler{public: public}
}

// Script maneja GET /env.js.
func (h *EnvHandler) Script(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", []byte(env.InjectScript(h.public)))
}

// JSON maneja GET /env.
func (h *EnvHandler) JSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.public)
}
