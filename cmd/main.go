package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scnr_bridge/internal/handlers"
	"scnr_bridge/internal/logger"
	"scnr_bridge/internal/models"
	"scnr_bridge/internal/repository"
	"scnr_bridge/internal/repository/db"
	"scnr_bridge/internal/server"
	"scnr_bridge/internal/service"
	"scnr_bridge/internal/switchbot"

	"github.com/spf13/viper"
)

func main() {
	// load config.yml first so the log level is honored
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log_level"))

	// open DB
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(database)
	client := newSwitchbotClient(log)
	services := service.NewService(repos, client, log, service.Config{
		Rooms:      viper.GetStringSlice("rooms"),
		Exclusive:  viper.GetBool("switchbot.exclusive"),
		Debug:      viper.GetBool("switchbot.debug"),
		SigningKey: viper.GetString("jwt.signing_key"),
	})
	apiHandler := handlers.NewHandler(services, log)

	if viper.GetBool("seed_defaults") {
		seedDefaults(services, log)
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// newSwitchbotClient builds the vendor client from config, with an optional
// time-bound session cache (default: re-login every cycle).
func newSwitchbotClient(log *logger.Logger) *switchbot.Client {
	cfg := switchbot.Config{
		Username: viper.GetString("switchbot.username"),
		Password: viper.GetString("switchbot.password"),
		AuthHost: viper.GetString("switchbot.auth_host"),
		APIHost:  viper.GetString("switchbot.api_host"),
	}
	if cfg.Username == "" || cfg.Password == "" {
		log.Warnw("switchbot credentials not configured; clean cycles will fail to authenticate")
	}

	var cache switchbot.SessionCache = switchbot.NoCache{}
	if ttl := viper.GetDuration("switchbot.session_cache_ttl"); ttl > 0 {
		cache = switchbot.NewTimeBoundCache(ttl)
		log.Infow("session cache enabled", "ttl", ttl)
	}
	return switchbot.NewClient(cfg, cache)
}

// seedDefaults pre-populates any unset clean parameter so a clean can be
// triggered right after first start without touching the settings API.
func seedDefaults(services *service.Service, log *logger.Logger) {
	defaults := map[string]string{
		models.ParamRoom:       "ROOM_000",
		models.ParamMode:       switchbot.ModeSweep,
		models.ParamWaterLevel: "1",
		models.ParamFanLevel:   "1",
		models.ParamCleanTimes: "1",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := services.Settings.Status(ctx)
	if err != nil {
		log.Errorw("seed defaults: load status failed", "err", err)
		return
	}
	for _, name := range status.Missing {
		if err := services.Settings.Set(ctx, name, defaults[name]); err != nil {
			log.Errorw("seed defaults: set failed", "name", name, "err", err)
		}
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
