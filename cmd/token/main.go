// Command token mints a purchaser bearer token signed with JWT_SECRET for
// local testing against the storefront.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iliyamo/ticketfella/internal/config"
	"github.com/iliyamo/ticketfella/internal/utils"
)

func main() {
	userID := flag.Uint64("user", 1, "purchaser user id")
	role := flag.String("role", "CUSTOMER", "role claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}
	tok, err := utils.NewAccessToken(secret, *userID, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
}
