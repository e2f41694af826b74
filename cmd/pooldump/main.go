package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "time"

    "solprice/internal/config"
    "solprice/internal/httpx"
    "solprice/internal/provider/dexscreener"
)

// pooldump fetches the raw DexScreener pair listings for one token and shows
// which pool the largest-SOL-pool selection would pick. Debugging aid for
// tokens whose reported price looks off.
func main() {
    var address string
    var outPath string
    var cfgPath string
    var timeoutSec int

    flag.StringVar(&address, "address", "", "token address to dump pairs for")
    flag.StringVar(&outPath, "out", "", "optional output JSON file path (default stdout)")
    flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
    flag.IntVar(&timeoutSec, "timeout", 20, "HTTP timeout seconds")
    flag.Parse()

    if address == "" {
        log.Fatal("missing -address")
    }

    cfg, err := config.Load(cfgPath)
    if err != nil {
        log.Fatalf("config: %v", err)
    }

    httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)
    client, err := dexscreener.NewAPIClient(
        dexscreener.WithHTTPClient(httpClient.HTTP),
        dexscreener.WithBaseURL(cfg.DexScreener.BaseURL),
    )
    if err != nil {
        log.Fatalf("dexscreener client: %v", err)
    }

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
    defer cancel()

    pairs, err := client.FetchTokenPairs(ctx, address)
    if err != nil {
        log.Fatalf("fetch pairs: %v", err)
    }
    log.Printf("pairs: %d", len(pairs))

    dump := struct {
        Address    string             `json:"address"`
        Pairs      []dexscreener.Pair `json:"pairs"`
        LargestSOL *dexscreener.Pair  `json:"largest_sol_pool"`
    }{
        Address:    address,
        Pairs:      pairs,
        LargestSOL: dexscreener.LargestPoolWithSOL(pairs, address),
    }

    b, err := json.MarshalIndent(dump, "", "  ")
    if err != nil {
        log.Fatalf("marshal: %v", err)
    }
    if outPath == "" {
        fmt.Println(string(b))
        return
    }
    if err := os.WriteFile(outPath, b, 0o644); err != nil {
        log.Fatalf("write %s: %v", outPath, err)
    }
    log.Printf("wrote %s", outPath)
}
