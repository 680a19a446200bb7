package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/arjunvn/melodia-backend/internal/config"
	"github.com/arjunvn/melodia-backend/internal/database"
	"github.com/arjunvn/melodia-backend/internal/handlers"
	"github.com/arjunvn/melodia-backend/internal/middleware"
	"github.com/arjunvn/melodia-backend/internal/musicapi"
	"github.com/arjunvn/melodia-backend/internal/routes"
	"github.com/arjunvn/melodia-backend/internal/services"
	"github.com/arjunvn/melodia-backend/internal/store"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	// Check music API keys (warn if not set, but don't fail)
	if cfg.ShazamAPIKey == "" {
		log.Println("⚠️  WARNING: SHAZAM_API_KEY not set. Music search and artist lookups will not work.")
	}
	if cfg.FreesoundAPIKey == "" {
		log.Println("⚠️  WARNING: FREESOUND_API_KEY not set. Freesound search will not work.")
	}

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Services
	authService := services.NewAuth(database.PostgresDB, database.RedisClient)
	profileService := services.NewProfile(database.PostgresDB)
	trackStore := store.NewTrackRepository(database.PostgresDB)

	// Outbound music clients (nil when the key is missing; the handler
	// reports the feature as unavailable)
	var shazam *musicapi.ShazamClient
	if cfg.ShazamAPIKey != "" {
		shazam = musicapi.NewShazamClient(cfg.ShazamAPIKey)
	}
	var freesound *musicapi.FreesoundClient
	if cfg.FreesoundAPIKey != "" {
		freesound = musicapi.NewFreesoundClient(cfg.FreesoundAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	var shazamSearch handlers.TrackSearcher
	var artistBrowser handlers.ArtistBrowser
	if shazam != nil {
		shazamSearch = shazam
		artistBrowser = shazam
	}
	var freesoundSearch handlers.TrackSearcher
	if freesound != nil {
		freesoundSearch = freesound
	}
	musicHandler := handlers.NewMusicHandler(shazamSearch, artistBrowser, freesoundSearch, trackStore)

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, authHandler, profileHandler, musicHandler, middleware.RequireAuth(authService))

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/register")
	log.Println("  POST /api/auth/login")
	log.Println("  POST /api/auth/logout")
	log.Println("  GET  /api/profile")
	log.Println("  PUT  /api/profile")
	log.Println("  GET  /api/music/search")
	log.Println("  GET  /api/music/artist/{id}/latest")
	log.Println("  GET  /api/music/saved")
	log.Println("  POST /api/music/saved")

	log.Printf("🚀 Melodia backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
