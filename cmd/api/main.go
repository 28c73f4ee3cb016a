// cmd/api/main.go
package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"partsledger/internal/telemetry"
)

func main() {
	logger, err := telemetry.NewLogger("api")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	catalogURL := mustParse(logger, getEnv("CATALOG_SERVICE_URL", "http://localhost:8081"))
	inventoryURL := mustParse(logger, getEnv("INVENTORY_SERVICE_URL", "http://localhost:8082"))
	technicianURL := mustParse(logger, getEnv("TECHNICIAN_SERVICE_URL", "http://localhost:8083"))
	workOrderURL := mustParse(logger, getEnv("WORKORDER_SERVICE_URL", "http://localhost:8084"))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Mount("/api/v1/catalog", http.StripPrefix("/api/v1/catalog", httputil.NewSingleHostReverseProxy(catalogURL)))
	router.Mount("/api/v1/inventory", http.StripPrefix("/api/v1/inventory", httputil.NewSingleHostReverseProxy(inventoryURL)))
	router.Mount("/api/v1/technicians", http.StripPrefix("/api/v1/technicians", httputil.NewSingleHostReverseProxy(technicianURL)))
	router.Mount("/api/v1/work-orders", http.StripPrefix("/api/v1/work-orders", httputil.NewSingleHostReverseProxy(workOrderURL)))

	port := getEnv("PORT", "8080")
	logger.Info("starting API gateway", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func mustParse(logger *zap.Logger, raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		logger.Fatal("invalid service URL", zap.String("url", raw), zap.Error(err))
	}
	return u
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
