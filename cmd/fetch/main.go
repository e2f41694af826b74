package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "strings"
    "time"

    "solprice/internal/config"
    "solprice/internal/httpx"
    "solprice/internal/provider"
    "solprice/internal/provider/birdeye"
    "solprice/internal/provider/dexscreener"
)

func main() {
    var addressesCSV string
    var providerName string
    var overviewAddr string
    var timeout int
    var configPath string

    flag.StringVar(&addressesCSV, "addresses", getenv("ADDRESSES", ""), "comma-separated token addresses")
    flag.StringVar(&providerName, "provider", getenv("PROVIDER", "auto"), "provider: birdeye, dexscreener or auto (fallback order)")
    flag.StringVar(&overviewAddr, "overview", "", "fetch the overview for a single address instead of prices")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "request timeout seconds")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout != 0 { cfg.Server.RequestTimeoutSec = timeout }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    var clients []provider.Client
    if cfg.BirdEye.Enabled && cfg.BirdEye.APIKey != "" {
        be, err := birdeye.NewAPIClient(
            cfg.BirdEye.APIKey,
            birdeye.WithHTTPClient(httpClient.HTTP),
            birdeye.WithBaseURL(cfg.BirdEye.BaseURL),
        )
        if err != nil { log.Fatalf("birdeye client: %v", err) }
        clients = append(clients, be)
    }
    if cfg.DexScreener.Enabled {
        dex, err := dexscreener.NewAPIClient(
            dexscreener.WithHTTPClient(httpClient.HTTP),
            dexscreener.WithBaseURL(cfg.DexScreener.BaseURL),
        )
        if err != nil { log.Fatalf("dexscreener client: %v", err) }
        clients = append(clients, dex)
    }
    if providerName != "" && providerName != "auto" {
        var narrowed []provider.Client
        for _, c := range clients {
            if strings.EqualFold(c.Name(), providerName) { narrowed = append(narrowed, c) }
        }
        clients = narrowed
    }
    if len(clients) == 0 {
        log.Fatal("no providers configured; check -provider, config.json and env overrides")
    }

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
    defer cancel()

    if overviewAddr != "" {
        runOverview(ctx, clients, overviewAddr)
        return
    }

    addresses := splitCSV(addressesCSV)
    if len(addresses) == 0 { log.Fatal("no addresses provided") }
    runPrices(ctx, clients, addresses)
}

// runPrices tries the clients in order; the first success is printed.
func runPrices(ctx context.Context, clients []provider.Client, addresses []string) {
    for _, c := range clients {
        prices, err := c.FetchPrices(ctx, addresses)
        if err != nil {
            log.Printf("%s error: %v", c.Name(), err)
            continue
        }
        printJSON(map[string]any{"provider": c.Name(), "prices": prices})
        return
    }
    log.Fatal("no prices received")
}

func runOverview(ctx context.Context, clients []provider.Client, address string) {
    for _, c := range clients {
        overview, err := c.FetchTokenOverview(ctx, address)
        if err != nil {
            log.Printf("%s error: %v", c.Name(), err)
            continue
        }
        printJSON(map[string]any{"provider": c.Name(), "overview": overview})
        return
    }
    log.Fatal("no overview received")
}

func printJSON(v any) {
    b, _ := json.MarshalIndent(v, "", "  ")
    fmt.Println(string(b))
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
