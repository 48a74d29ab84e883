package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/lekhanhduy0411/tiemlen/config"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
	"github.com/lekhanhduy0411/tiemlen/pkg/response"
)

// Recovery catches any panic in downstream handlers, logs the stack trace,
// and returns a 500 to the client. Outside production the stack is echoed
// in the response body to ease debugging.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()
				logger.Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(stack),
					"method", r.Method,
					"path", r.URL.Path,
				)

				echo := ""
				switch config.AppEnv() {
				case "production", "prod":
				default:
					echo = string(stack)
				}
				response.ServerError(w, "Lỗi máy chủ", echo)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
