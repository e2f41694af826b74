package main

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "solprice/internal/config"
    "solprice/internal/httpx"
    "solprice/internal/provider"
    "solprice/internal/provider/birdeye"
    "solprice/internal/provider/dexscreener"
    "solprice/internal/solana"
)

type pricesResponse struct {
    Provider string                          `json:"provider"`
    Prices   map[string]*provider.PriceInfo  `json:"prices"`
}

type overviewResponse struct {
    Provider string                  `json:"provider"`
    Overview *provider.TokenOverview `json:"overview"`
}

func main() {
    // Config
    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }
    port := cfg.Server.Port
    timeoutSec := cfg.Server.RequestTimeoutSec

    if cfg.BirdEye.Enabled && cfg.BirdEye.APIKey == "" {
        log.Println("warning: birdeye.enabled=true but BIRDEYE_API_KEY not set; skipping")
    }

    httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)
    httpClient.UserAgent = "solprice/1.0"

    clients, err := buildClients(cfg, httpClient)
    if err != nil { log.Fatalf("clients: %v", err) }
    if len(clients) == 0 {
        log.Fatal("no providers configured; set config.json or env overrides")
    }

    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("/api/prices", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleGetPrices(w, r, clients)
    })
    mux.HandleFunc("/api/overview", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleGetOverview(w, r, clients)
    })

    srv := &http.Server{
        Addr:              ":" + port,
        Handler:           withJSONHeaders(recoverPanic(mux)),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Printf("server listening on :%s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

func buildClients(cfg config.Config, httpClient *httpx.Client) ([]provider.Client, error) {
    var clients []provider.Client
    if cfg.BirdEye.Enabled && cfg.BirdEye.APIKey != "" {
        be, err := birdeye.NewAPIClient(
            cfg.BirdEye.APIKey,
            birdeye.WithHTTPClient(httpClient.HTTP),
            birdeye.WithBaseURL(cfg.BirdEye.BaseURL),
        )
        if err != nil { return nil, fmt.Errorf("birdeye client: %w", err) }
        clients = append(clients, be)
    }
    if cfg.DexScreener.Enabled {
        dex, err := dexscreener.NewAPIClient(
            dexscreener.WithHTTPClient(httpClient.HTTP),
            dexscreener.WithBaseURL(cfg.DexScreener.BaseURL),
        )
        if err != nil { return nil, fmt.Errorf("dexscreener client: %w", err) }
        clients = append(clients, dex)
    }
    return clients, nil
}

// selectClients narrows the fallback chain to one provider when the caller
// names it explicitly.
func selectClients(clients []provider.Client, name string) []provider.Client {
    if name == "" { return clients }
    for _, c := range clients {
        if strings.EqualFold(c.Name(), name) { return []provider.Client{c} }
    }
    return nil
}

func handleGetPrices(w http.ResponseWriter, r *http.Request, clients []provider.Client) {
    q := r.URL.Query().Get("addresses")
    if strings.TrimSpace(q) == "" {
        http.Error(w, "missing addresses query param", http.StatusBadRequest)
        return
    }
    addresses := splitCSV(q)
    if len(addresses) > 100 {
        http.Error(w, "too many addresses (max 100)", http.StatusBadRequest)
        return
    }
    selected := selectClients(clients, r.URL.Query().Get("provider"))
    if selected == nil {
        http.Error(w, "unknown provider", http.StatusBadRequest)
        return
    }
    writePrices(w, r.Context(), selected, addresses)
}

func handleGetOverview(w http.ResponseWriter, r *http.Request, clients []provider.Client) {
    address := strings.TrimSpace(r.URL.Query().Get("address"))
    if address == "" {
        http.Error(w, "missing address query param", http.StatusBadRequest)
        return
    }
    selected := selectClients(clients, r.URL.Query().Get("provider"))
    if selected == nil {
        http.Error(w, "unknown provider", http.StatusBadRequest)
        return
    }
    writeOverview(w, r.Context(), selected, address)
}

// writePrices tries the providers in order and answers with the first success.
// Input errors are terminal: every provider validates the same way, so there
// is no point falling through.
func writePrices(w http.ResponseWriter, rctx context.Context, clients []provider.Client, addresses []string) {
    ctx, cancel := context.WithTimeout(rctx, 15*time.Second)
    defer cancel()
    var errs []string
    for _, c := range clients {
        prices, err := c.FetchPrices(ctx, addresses)
        if err != nil {
            if isInputErr(err) {
                http.Error(w, err.Error(), http.StatusBadRequest)
                return
            }
            errs = append(errs, fmt.Sprintf("%s: %v", c.Name(), err))
            continue
        }
        writeJSON(w, pricesResponse{Provider: c.Name(), Prices: prices})
        return
    }
    http.Error(w, strings.Join(errs, "; "), http.StatusBadGateway)
}

func writeOverview(w http.ResponseWriter, rctx context.Context, clients []provider.Client, address string) {
    ctx, cancel := context.WithTimeout(rctx, 15*time.Second)
    defer cancel()
    var errs []string
    for _, c := range clients {
        overview, err := c.FetchTokenOverview(ctx, address)
        if err != nil {
            if isInputErr(err) {
                http.Error(w, err.Error(), http.StatusBadRequest)
                return
            }
            errs = append(errs, fmt.Sprintf("%s: %v", c.Name(), err))
            continue
        }
        // A nil overview is a real answer: the token has no pools.
        writeJSON(w, overviewResponse{Provider: c.Name(), Overview: overview})
        return
    }
    http.Error(w, strings.Join(errs, "; "), http.StatusBadGateway)
}

func isInputErr(err error) bool {
    return errors.Is(err, solana.ErrInvalidAddress) || errors.Is(err, solana.ErrNoAddresses)
}

func writeJSON(w http.ResponseWriter, v any) {
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        // Basic CORS for browser usage; adjust as needed.
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
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
