package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"labkit/internal/token"
	"labkit/pkg/config"
)

// Mints a bearer token for a user id. Login/registration is handled by the
// identity provider in front of this API; this helper exists for local dev and
// smoke tests.
func main() {
	userID := flag.String("user", "", "user id (uuid) to mint a token for")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: TOKEN_TTL from config)")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: mktoken -user <uuid> [-ttl 24h]")
		os.Exit(2)
	}

	cfg := config.Load()
	lifetime := cfg.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	s, err := token.Issue(*userID, cfg.JWTSecret, lifetime, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(s)
}
