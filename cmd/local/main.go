package main

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/middleware"
	"github.com/hirosato/pcc3-assistant/backend/internal/app"
	envconfig "github.com/hirosato/pcc3-assistant/backend/internal/common/config"
)

// Serves the Lambda handler over plain HTTP for local development.
// Run with: go run ./cmd/local (reads .env when present)
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	config, err := envconfig.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load Env config: %v", err)
	}

	logger := app.NewLogger(config)
	slog.SetDefault(logger)

	zapLogger, err := app.NewZapLogger(config)
	if err != nil {
		log.Fatalf("Failed to create zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	handler, err := app.NewHandler(context.Background(), config, logger, zapLogger)
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Handle("/*", lambdaAdapter(handler, logger))

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	logger.Info("Local server listening", "addr", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}

// lambdaAdapter translates an HTTP request into an API Gateway proxy event
// and writes the handler's response back
func lambdaAdapter(handler middleware.APIGatewayHandler, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}

		request := events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			Headers:               make(map[string]string, len(r.Header)),
			QueryStringParameters: make(map[string]string),
		}
		for k, v := range r.Header {
			request.Headers[k] = strings.Join(v, ",")
		}
		for k, v := range r.URL.Query() {
			request.QueryStringParameters[k] = v[0]
		}
		if utf8.Valid(body) {
			request.Body = string(body)
		} else {
			request.Body = base64.StdEncoding.EncodeToString(body)
			request.IsBase64Encoded = true
		}
		request.RequestContext.RequestID = chimiddleware.GetReqID(r.Context())
		request.RequestContext.Identity.SourceIP = r.RemoteAddr

		resp, err := handler(r.Context(), logger, request)
		if err != nil {
			logger.Error("Handler returned error", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		status := resp.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)

		out := []byte(resp.Body)
		if resp.IsBase64Encoded {
			if out, err = base64.StdEncoding.DecodeString(resp.Body); err != nil {
				logger.Error("Failed to decode response body", "error", err)
				return
			}
		}
		_, _ = w.Write(out)
	}
}
