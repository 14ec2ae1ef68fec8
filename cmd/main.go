package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"task_tracker/internal/handlers"
	"task_tracker/internal/logger"
	"task_tracker/internal/repository"
	"task_tracker/internal/server"
	"task_tracker/internal/service"

	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	loadConfig()

	// init logger
	log := logger.Get(viper.GetString("log.level"))

	if viper.GetString("jwt.secret") == "" {
		log.Fatalw("JWT_SECRET is not set")
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, authConfig())
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// loadConfig reads the optional configs/config.yml and lets environment
// variables override it (DATABASE_URL, JWT_SECRET, JWT_ALGORITHM,
// JWT_EXPIRE_MINUTES, PORT, LOG_LEVEL).
func loadConfig() {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log.level", logger.InfoLevel)
	viper.SetDefault("db.url", "app.db")
	viper.SetDefault("jwt.algorithm", "HS256")
	viper.SetDefault("jwt.expire_minutes", 30)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("db.url", "DATABASE_URL", "DB_URL")

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	_ = viper.ReadInConfig() // config file is optional; env is enough
}

// authConfig packs the token settings into an explicit struct so no service
// reads viper globally.
func authConfig() service.AuthConfig {
	return service.AuthConfig{
		SigningKey: viper.GetString("jwt.secret"),
		Algorithm:  viper.GetString("jwt.algorithm"),
		TokenTTL:   time.Duration(viper.GetInt("jwt.expire_minutes")) * time.Minute,
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbURL := viper.GetString("db.url")
	log.Infow("opening database", "url", dbURL)
	return repository.InitDB(dbURL)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("server started", "port", port)
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
