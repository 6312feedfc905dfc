package middleware

import (
	"github.com/gin-gonic/gin"
)

// proxyIPHeaders are honoured only when the peer is a trusted proxy.
var proxyIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// ConfigureProxies sets which peers may supply the client IP through proxy
// headers. With no trusted proxies c.ClientIP() is the connection address.
func ConfigureProxies(engine *gin.Engine, trusted []string) error {
	engine.RemoteIPHeaders = proxyIPHeaders
	if len(trusted) == 0 {
		trusted = nil
	}
	return engine.SetTrustedProxies(trusted)
}

// RealIP stores the client IP resolved by gin under "real_ip".
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}
