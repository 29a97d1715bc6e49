// Command sweetshop is a CLI client for the Sweet Shop API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/manoj-kumar111/sweet-shop/internal/client"
)

// ---- token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "sweetshop")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sweetshop")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(os.Stderr, "error: %s\n", apiErr.Message)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// tokenExpiry reads the exp claim without validating the signature; the
// server is the authority, the CLI only needs a refresh hint.
func tokenExpiry(raw string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Now().Add(time.Hour)
}

func usage() {
	fmt.Fprintf(os.Stderr, `sweetshop CLI
Usage:
  sweetshop [-addr URL] <cmd> [args]

Commands:
  version
  register        -u <email> -p <password>
  register-admin  -u <email> -p <password>
  login           -u <email> -p <password>     (saves token)
  logout
  list
  search          [-name <substr>] [-max-price <n>]
  add             -name N -category C -price P -quantity Q [-desc D]   (admin)
  edit            -id <uuid> [-name N] [-category C] [-price P] [-quantity Q] [-desc D]
  rm              -id <uuid>                                           (admin)
  buy             -id <uuid>
  restock         -id <uuid> -quantity Q                               (admin)
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the REST API.
func main() {
	addr := flag.String("addr", "http://localhost:3000", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.New(*addr, 30*time.Second)

	switch cmd {

	case "version":
		fmt.Printf("sweetshop %s (%s)\n", version, buildDate)

	case "register", "register-admin":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		u := fs.String("u", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}

		var (
			user client.User
			err  error
		)
		if cmd == "register" {
			user, err = api.Register(ctx, *u, *p)
		} else {
			user, err = api.RegisterAdmin(ctx, *u, *p)
		}
		if err != nil {
			fail(err)
		}
		printJSON(user)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		u := fs.String("u", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}

		res, err := api.Login(ctx, *u, *p)
		if err != nil {
			fail(err)
		}
		if err := saveToken(res.Token, tokenExpiry(res.Token)); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "logout":
		if err := os.Remove(tokenPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fail(err)
		}
		fmt.Println("ok")

	case "list":
		mustAuth(api)
		sweets, err := api.ListSweets(ctx)
		if err != nil {
			fail(err)
		}
		printJSON(sweets)

	case "search":
		fs := flag.NewFlagSet("search", flag.ExitOnError)
		name := fs.String("name", "", "name substring")
		maxPrice := fs.Float64("max-price", -1, "maximum price")
		_ = fs.Parse(flag.Args()[1:])

		mustAuth(api)
		var mp *float64
		if *maxPrice >= 0 {
			mp = maxPrice
		}
		sweets, err := api.SearchSweets(ctx, *name, mp)
		if err != nil {
			fail(err)
		}
		printJSON(sweets)

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		name := fs.String("name", "", "name")
		category := fs.String("category", "", "category")
		price := fs.Float64("price", 0, "price")
		quantity := fs.Int64("quantity", 0, "initial stock")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(flag.Args()[1:])
		if *name == "" || *category == "" {
			fmt.Fprintln(os.Stderr, "need -name and -category")
			os.Exit(1)
		}

		mustAuth(api)
		sweet, err := api.CreateSweet(ctx, client.SweetInput{
			Name:        *name,
			Category:    *category,
			Price:       *price,
			Quantity:    *quantity,
			Description: *desc,
		})
		if err != nil {
			fail(err)
		}
		printJSON(sweet)

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ExitOnError)
		id := fs.String("id", "", "sweet id")
		name := fs.String("name", "", "name")
		category := fs.String("category", "", "category")
		price := fs.Float64("price", -1, "price")
		quantity := fs.Int64("quantity", -1, "stock")
		desc := fs.String("desc", "", "description")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		var patch client.SweetPatch
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				patch.Name = name
			case "category":
				patch.Category = category
			case "price":
				patch.Price = price
			case "quantity":
				patch.Quantity = quantity
			case "desc":
				patch.Description = desc
			}
		})

		mustAuth(api)
		sweet, err := api.UpdateSweet(ctx, *id, patch)
		if err != nil {
			fail(err)
		}
		printJSON(sweet)

	case "rm":
		fs := flag.NewFlagSet("rm", flag.ExitOnError)
		id := fs.String("id", "", "sweet id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		mustAuth(api)
		if err := api.DeleteSweet(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "buy":
		fs := flag.NewFlagSet("buy", flag.ExitOnError)
		id := fs.String("id", "", "sweet id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}

		mustAuth(api)
		if err := api.Purchase(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "restock":
		fs := flag.NewFlagSet("restock", flag.ExitOnError)
		id := fs.String("id", "", "sweet id")
		quantity := fs.Int64("quantity", 0, "units to add")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" || *quantity <= 0 {
			fmt.Fprintln(os.Stderr, "need -id and a positive -quantity")
			os.Exit(1)
		}

		mustAuth(api)
		if err := api.Restock(ctx, *id, *quantity); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	default:
		usage()
	}
}

// mustAuth installs the saved token or exits with a login hint.
func mustAuth(api *client.Client) {
	tok, err := loadToken()
	if err != nil {
		fail(err)
	}
	api.SetToken(tok)
}
