// Command admintoken prints a signed access token for calling the guarded
// ticket routes (remove, modify, admin events) when AUTH_ENABLED is set.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/iliyamo/ticket-booking/internal/config"
	"github.com/iliyamo/ticket-booking/internal/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	secretDefault := cfg.JWTSecret
	if secretDefault == "" {
		secretDefault = os.Getenv("JWT_SECRET")
	}

	subject := flag.StringP("subject", "s", "admin", "token subject (sub claim)")
	role := flag.StringP("role", "r", utils.RoleAdmin, "role claim")
	ttl := flag.DurationP("ttl", "t", time.Duration(cfg.AccessTTLMin)*time.Minute, "token lifetime (defaults to ACCESS_TOKEN_TTL_MIN)")
	secret := flag.String("secret", secretDefault, "signing secret (defaults to $JWT_SECRET)")
	flag.Parse()

	tok, err := utils.NewAccessToken(*secret, *subject, *role, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "admintoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
