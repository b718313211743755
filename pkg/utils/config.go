package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	return AuthConfig{
		// dev default (change for deployment)
		JWTSecret:   GetEnv("FUSIONDEX_JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:   GetEnv("FUSIONDEX_JWT_ISSUER", "fusiondex"),
		JWTDuration: time.Duration(GetEnvInt("FUSIONDEX_JWT_TTL_HOURS", 24)) * time.Hour,
	}
}

type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	CORSDebug      bool
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           GetEnv("FUSIONDEX_HTTP_ADDR", ":8080"),
		AllowedOrigins: GetEnvList("FUSIONDEX_CORS_ORIGINS", []string{"*"}),
		CORSDebug:      GetEnv("FUSIONDEX_CORS_DEBUG", "") == "true",
	}
}

type GrpcConfig struct {
	Addr string
}

func LoadGrpcConfig() GrpcConfig {
	return GrpcConfig{Addr: GetEnv("FUSIONDEX_GRPC_ADDR", ":9090")}
}

// CatalogConfig locates the raw inputs of a catalog rebuild and tunes the
// fusion aggregation pass.
type CatalogConfig struct {
	DataDir     string
	CreditsPath string
	SpritesPath string
	DexPath     string
	MaxSpecies  int
	Workers     int
	TotalsPath  string
}

func LoadCatalogConfig() CatalogConfig {
	dataDir := GetEnv("FUSIONDEX_DATA_DIR", "data")
	return CatalogConfig{
		DataDir:     dataDir,
		CreditsPath: GetEnv("FUSIONDEX_CREDITS_PATH", filepath.Join(dataDir, "credits.txt")),
		SpritesPath: GetEnv("FUSIONDEX_SPRITES_PATH", filepath.Join(dataDir, "sprites.txt")),
		DexPath:     GetEnv("FUSIONDEX_DEX_PATH", filepath.Join(dataDir, "dex.csv")),
		MaxSpecies:  GetEnvInt("FUSIONDEX_MAX_SPECIES", 501),
		Workers:     GetEnvInt("FUSIONDEX_WORKERS", 8),
		TotalsPath:  GetEnv("FUSIONDEX_TOTALS_PATH", "fusion_totals.json"),
	}
}

// SheetConfig describes where spritesheets live and where slices go.
type SheetConfig struct {
	GraphicsRoot string
	OutputRoot   string
	TileSize     int
	ThumbSize    int
}

func LoadSheetConfig() SheetConfig {
	return SheetConfig{
		GraphicsRoot: GetEnv("FUSIONDEX_GRAPHICS_ROOT", "GameGraphics"),
		OutputRoot:   GetEnv("FUSIONDEX_OUTPUT_ROOT", "Graphics"),
		TileSize:     GetEnvInt("FUSIONDEX_TILE_SIZE", 288),
		ThumbSize:    GetEnvInt("FUSIONDEX_THUMB_SIZE", 0),
	}
}

type ScraperConfig struct {
	BaseURL           string
	From              int
	To                int
	RequestsPerSecond float64
	Timeout           time.Duration
	OutPath           string
}

func LoadScraperConfig() ScraperConfig {
	rps, err := strconv.ParseFloat(GetEnv("FUSIONDEX_SCRAPE_RPS", "5"), 64)
	if err != nil || rps <= 0 {
		rps = 5
	}
	return ScraperConfig{
		BaseURL:           GetEnv("FUSIONDEX_SCRAPE_BASE_URL", "https://www.fusiondex.org"),
		From:              GetEnvInt("FUSIONDEX_SCRAPE_FROM", 501),
		To:                GetEnvInt("FUSIONDEX_SCRAPE_TO", 600),
		RequestsPerSecond: rps,
		Timeout:           time.Duration(GetEnvInt("FUSIONDEX_SCRAPE_TIMEOUT_SECONDS", 12)) * time.Second,
		OutPath:           GetEnv("FUSIONDEX_SCRAPE_OUT", "fusiondex_data.json"),
	}
}

type LogConfig struct {
	Level      string
	JSONFormat bool
}

func LoadLogConfig() LogConfig {
	return LogConfig{
		Level:      GetEnv("FUSIONDEX_LOG_LEVEL", "info"),
		JSONFormat: GetEnv("FUSIONDEX_LOG_FORMAT", "text") == "json",
	}
}

func GetEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetEnvInt falls back to def when the variable is unset or not an integer.
func GetEnvInt(key string, def int) int {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func GetEnvList(key string, def []string) []string {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
