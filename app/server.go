// Package app assembles the HTTP server from the catalog handlers.
package app

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/stockline/catalog-service/app/categories"
	"github.com/stockline/catalog-service/app/products"
	"github.com/stockline/catalog-service/models"
)

func NewServer(addr string, store models.Store, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()

	categories.NewCategoryHandler(categories.NewService(store, log)).Register(mux)
	products.NewProductHandler(products.NewService(store, log)).Register(mux)

	return &http.Server{
		Addr:              addr,
		Handler:           requestLogger(log, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
