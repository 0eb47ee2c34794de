package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"dinewallet.backend/internal/config"
	"dinewallet.backend/pkg/jwt"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type operatorTokenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	newID   func() uuid.UUID
	out     io.Writer
}

func defaultOperatorTokenDeps() operatorTokenDeps {
	return operatorTokenDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		newID:   uuid.New,
		out:     os.Stdout,
	}
}

func parseOperatorID(raw string, newID func() uuid.UUID) (uuid.UUID, error) {
	if raw == "" {
		return newID(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --operator-id: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("--operator-id must not be the nil uuid")
	}
	return id, nil
}

func validateRole(role string) error {
	switch role {
	case jwt.RoleAdmin, jwt.RoleBooking:
		return nil
	}
	return fmt.Errorf("invalid role: %s (allowed: %s, %s)", role, jwt.RoleAdmin, jwt.RoleBooking)
}

func runOperatorToken(args []string, deps operatorTokenDeps) error {
	def := defaultOperatorTokenDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.newID == nil {
		deps.newID = def.newID
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("operator-token", flag.ContinueOnError)
	operatorFlag := fs.String("operator-id", "", "operator UUID (generated when empty)")
	roleFlag := fs.String("role", jwt.RoleBooking, "operator role: admin or booking")
	expiryFlag := fs.Duration("expiry", 0, "token lifetime (defaults to JWT_EXPIRY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validateRole(*roleFlag); err != nil {
		return err
	}
	operatorID, err := parseOperatorID(*operatorFlag, deps.newID)
	if err != nil {
		return err
	}
	if *expiryFlag < 0 {
		return fmt.Errorf("invalid expiry: %s", *expiryFlag)
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is not configured")
	}

	expiry := cfg.JWT.Expiry
	if *expiryFlag > 0 {
		expiry = *expiryFlag
	}
	if expiry <= 0 {
		expiry = time.Hour
	}

	token, err := jwt.NewJWTService(cfg.JWT.Secret, expiry, cfg.JWT.Issuer).GenerateToken(operatorID, *roleFlag)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Generated operator token")
	_, _ = fmt.Fprintf(deps.out, "OPERATOR_ID=%s\n", operatorID)
	_, _ = fmt.Fprintf(deps.out, "ROLE=%s\n", *roleFlag)
	_, _ = fmt.Fprintf(deps.out, "EXPIRES_IN=%s\n", expiry)
	_, _ = fmt.Fprintf(deps.out, "TOKEN=%s\n", token)
	return nil
}

func main() {
	if err := runOperatorToken(os.Args[1:], defaultOperatorTokenDeps()); err != nil {
		log.Fatal(err)
	}
}
