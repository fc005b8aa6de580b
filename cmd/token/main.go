// Command token signs an access token with the service's JWT_SECRET so an
// operator can call the course write routes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hongjunna/toporider/internal/auth"
	"github.com/hongjunna/toporider/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, config.Load); err != nil {
		log.Fatalf("token: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer, loadConfig func() config.Config) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	user := fs.String("user", "", "user id carried in the token")
	ttl := fs.Duration("ttl", auth.AccessTokenTTL, "token lifetime (e.g. 1h)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return errors.New("-user is required")
	}

	cfg := loadConfig()
	if cfg.JWTSecret == config.DefaultJWTSecret {
		fmt.Fprintln(stderr, "warning: signing with the development JWT_SECRET")
	}

	token, err := auth.NewService(cfg.JWTSecret).Issue(*user, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}
