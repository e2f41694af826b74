package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type BirdEye struct {
    Enabled bool   `json:"enabled"`
    APIKey  string `json:"api_key"`
    BaseURL string `json:"base_url"`
}

type DexScreener struct {
    Enabled bool   `json:"enabled"`
    BaseURL string `json:"base_url"`
}

type Config struct {
    Server      Server      `json:"server"`
    BirdEye     BirdEye     `json:"birdeye"`
    DexScreener DexScreener `json:"dexscreener"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 10},
        BirdEye: BirdEye{
            Enabled: true,
            BaseURL: "https://public-api.birdeye.so",
        },
        DexScreener: DexScreener{
            Enabled: true,
            BaseURL: "https://api.dexscreener.com",
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("BIRDEYE_API_KEY"); v != "" { cfg.BirdEye.APIKey = v }
    if v := os.Getenv("BIRDEYE_BASE_URL"); v != "" { cfg.BirdEye.BaseURL = v }
    if v := os.Getenv("BIRDEYE_ENABLED"); v != "" { cfg.BirdEye.Enabled = parseBool(v, cfg.BirdEye.Enabled) }
    if v := os.Getenv("DEXSCREENER_BASE_URL"); v != "" { cfg.DexScreener.BaseURL = v }
    if v := os.Getenv("DEXSCREENER_ENABLED"); v != "" { cfg.DexScreener.Enabled = parseBool(v, cfg.DexScreener.Enabled) }
}

func parseBool(v string, def bool) bool {
    switch strings.ToLower(v) {
    case "1", "true", "yes", "y":
        return true
    case "0", "false", "no", "n":
        return false
    }
    return def
}
