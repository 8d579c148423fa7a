package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/calder/fishcast/internal/api"
	"github.com/calder/fishcast/internal/ingest"
	"github.com/calder/fishcast/internal/models"
	"github.com/calder/fishcast/internal/store"
)

var defaultSpots = []models.Spot{
	{Name: "Puget Sound", Latitude: 47.602, Longitude: -122.339, IsCoastal: true, TideStation: "9447130", Active: true},
	{Name: "Lake Washington", Latitude: 47.621, Longitude: -122.256, IsCoastal: false, Active: true},
	{Name: "Snoqualmie River", Latitude: 47.531, Longitude: -121.828, IsCoastal: false, Active: true},
}

var cli struct {
	DB           string        `help:"Path to SQLite database." default:"data/fishcast.db" env:"FISHCAST_DB"`
	Port         string        `help:"HTTP server port." default:"8080" env:"FISHCAST_PORT"`
	PollInterval time.Duration `help:"How often to refresh spot reports." default:"30m" env:"FISHCAST_POLL_INTERVAL"`
	NoPoll       bool          `help:"Disable background polling (server only, for local dev)."`
	Once         bool          `help:"Refresh all spots once and exit."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("fishcast"),
		kong.Description("Fishing activity scoring service."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	for _, spot := range defaultSpots {
		if err := st.UpsertSpot(spot); err != nil {
			log.Fatalf("upsert spot %s: %v", spot.Name, err)
		}
	}
	log.Println("spots seeded")

	weather := ingest.NewWeatherClient()
	tides := ingest.NewTideClient()
	scheduler := ingest.NewScheduler(st, weather, tides, cli.PollInterval)
	server := api.NewServer(st, scheduler, cli.Port)

	if cli.Once {
		log.Println("refreshing all spots once")
		if err := scheduler.RefreshOnce(); err != nil {
			log.Fatalf("refresh: %v", err)
		}
		log.Println("done")
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cli.NoPoll {
		go scheduler.Run(ctx)
	} else {
		log.Println("polling disabled (--no-poll)")
	}

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
