package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"fusiondex/internal/auth"
	"fusiondex/internal/grpcserver"
	"fusiondex/internal/sprite"
	"fusiondex/pkg/utils"
)

const (
	defaultBaseURL  = "http://localhost:8080"
	defaultGrpcAddr = "localhost:9090"
)

type tokenData struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func main() {
	utils.LoadEnv()

	global := flag.NewFlagSet("fusiondex", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	grpcAddr := global.String("grpc", defaultGrpcAddr, "gRPC address")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := &http.Client{Timeout: 15 * time.Second}

	switch args[0] {
	case "resolve":
		handleResolve(args[1:])
	case "token":
		handleToken(*tokenPath, args[1:])
	case "sprite":
		handleSprite(ctx, client, *baseURL, args[1:])
	case "fusions":
		handleFusions(ctx, *grpcAddr, args[1:])
	case "rebuild":
		handleRebuild(ctx, *baseURL, *tokenPath)
	case "watch":
		wsURL, err := websocketURL(*baseURL, "/ws")
		if err != nil {
			log.Fatalf("ws url: %v", err)
		}
		if err := runWebSocket(wsURL); err != nil {
			log.Fatalf("watch: %v", err)
		}
	default:
		printUsage()
		os.Exit(1)
	}
}

// handleResolve prints the sheet and rectangle of a sprite without touching
// the catalog.
func handleResolve(args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	category := fs.String("category", "", "base, custom or autogen (inferred when empty)")
	tile := fs.Int("tile", sprite.DefaultTileSize, "tile edge in pixels")
	height := fs.Int("height", 0, "sheet height for the bounds check, 0 to skip")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: fusiondex resolve [-category c] <sprite_id>")
	}

	var (
		id  sprite.Identifier
		err error
	)
	if *category == "" {
		id, err = sprite.Parse(fs.Arg(0))
	} else {
		var cat sprite.Category
		if cat, err = sprite.ParseCategory(*category); err == nil {
			id, err = sprite.ParseAs(fs.Arg(0), cat)
		}
	}
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	sheet := sprite.Sheet{Height: *height}
	if *height <= 0 {
		sheet.Height = int(^uint32(0) >> 1)
	}
	r := sprite.NewResolver(*tile)
	rect, err := r.Resolve(id, sheet)
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	printJSON(map[string]any{
		"sprite_id": id.String(),
		"base_id":   id.BaseID(),
		"category":  id.Category.String(),
		"sheet":     r.SheetPath(id),
		"output":    r.OutputPath(id),
		"rect":      rect,
	})
}

// handleToken mints an admin token with the locally configured secret.
func handleToken(tokenPath string, args []string) {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	subject := fs.String("sub", "admin", "token subject")
	_ = fs.Parse(args)

	cfg := utils.LoadAuthConfig()
	tokens := auth.TokenService{Secret: []byte(cfg.JWTSecret), Issuer: cfg.JWTIssuer, Duration: cfg.JWTDuration}
	token, exp, err := tokens.Sign(*subject, auth.RoleAdmin)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	if err := saveToken(tokenPath, tokenData{Token: token, ExpiresAt: exp}); err != nil {
		log.Fatalf("save token: %v", err)
	}
	fmt.Printf("token saved to %s (expires %s)\n", tokenPath, exp.Format(time.RFC3339))
}

func handleSprite(ctx context.Context, client *http.Client, baseURL string, args []string) {
	if len(args) != 1 {
		log.Fatal("usage: fusiondex sprite <sprite_id>")
	}
	var out map[string]any
	endpoint := baseURL + "/sprites/" + url.PathEscape(args[0])
	if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &out); err != nil {
		log.Fatalf("sprite: %v", err)
	}
	printJSON(out)
}

func handleFusions(ctx context.Context, addr string, args []string) {
	fs := flag.NewFlagSet("fusions", flag.ExitOnError)
	from := fs.Int("from", 0, "first species id for a range report")
	to := fs.Int("to", 0, "last species id for a range report")
	_ = fs.Parse(args)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("grpc dial: %v", err)
	}
	defer conn.Close()
	c := grpcserver.NewClient(conn)

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if fs.NArg() == 1 {
		var species int
		if _, err := fmt.Sscan(fs.Arg(0), &species); err != nil {
			log.Fatalf("species id: %v", err)
		}
		resp, err := c.CountFusions(ctx, &grpcserver.CountFusionsRequest{Species: species})
		if err != nil {
			log.Fatalf("count fusions: %v", err)
		}
		printJSON(resp)
		return
	}

	resp, err := c.FusionTotals(ctx, &grpcserver.FusionTotalsRequest{From: *from, To: *to})
	if err != nil {
		log.Fatalf("fusion totals: %v", err)
	}
	printJSON(resp.Totals)
}

func handleRebuild(ctx context.Context, baseURL, tokenPath string) {
	token, err := readToken(tokenPath)
	if err != nil {
		log.Fatalf("read token (run `fusiondex token` first): %v", err)
	}
	client := &http.Client{Timeout: 10 * time.Minute}
	var out map[string]any
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/admin/rebuild", token, nil, &out); err != nil {
		log.Fatalf("rebuild: %v", err)
	}
	printJSON(out)
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[events] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.fusiondex-token.json"
	}
	return filepath.Join(home, ".fusiondex", "token.json")
}

func saveToken(path string, td tokenData) error {
	if td.Token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(td, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	if !td.ExpiresAt.IsZero() && time.Now().After(td.ExpiresAt) {
		return "", errors.New("token expired")
	}
	return strings.TrimSpace(td.Token), nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("fusiondex [-api url] [-grpc addr] [-token path] <command> [flags]")
	fmt.Println("commands:")
	fmt.Println("  resolve [-category c] [-tile n] [-height n] <sprite_id>")
	fmt.Println("  token [-sub name]")
	fmt.Println("  sprite <sprite_id>")
	fmt.Println("  fusions <species> | fusions [-from n] [-to n]")
	fmt.Println("  rebuild")
	fmt.Println("  watch")
}
