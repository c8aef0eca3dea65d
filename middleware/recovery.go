package middleware

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/coffee-shop/utils"
	"go.uber.org/zap"
)

// Recoverer turns a panic in a downstream handler into a 500 with the uniform
// error body. Nothing is written if the handler had already started the response.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.String("request_id", GetRequestIDFromContext(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))

				if ww.Status() == 0 {
					_ = utils.WriteInternalServerError(ww, "An internal error occurred")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// Timeout cancels the request context after d. If the handler returns without
// writing once the deadline has passed, a 504 with the uniform error body is sent.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				_ = utils.WriteError(ww, http.StatusGatewayTimeout, utils.KindTimeout, "request timed out", nil)
			}
		})
	}
}
