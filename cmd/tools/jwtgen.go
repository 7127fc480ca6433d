package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"asset-inventory/internal/auth"
	"asset-inventory/internal/config"
)

func main() {
	var (
		subject    = flag.String("sub", "assets-cli", "Token subject")
		roles      = flag.String("roles", auth.RoleAssetAdmin, "Comma-separated list of roles")
		expiryMins = flag.Int("expiry", 0, "Token expiry in minutes (default: JWT_EXPIRY or 24 hours)")
		secret     = flag.String("secret", "", "JWT secret (overrides JWT_SECRET env var)")
		issuer     = flag.String("issuer", "", "JWT issuer (overrides JWT_ISS env var)")
		audience   = flag.String("audience", "", "JWT audience (overrides JWT_AUD env var)")
	)
	flag.Parse()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	jwtCfg := cfg.JWT
	if *secret != "" {
		jwtCfg.Secret = *secret
	}
	if *issuer != "" {
		jwtCfg.Issuer = *issuer
	}
	if *audience != "" {
		jwtCfg.Audience = *audience
	}
	if *expiryMins > 0 {
		jwtCfg.Expiry = time.Duration(*expiryMins) * time.Minute
	}

	var roleList []string
	for _, role := range strings.Split(*roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roleList = append(roleList, role)
		}
	}

	jwtManager := auth.NewJWTManagerFromConfig(jwtCfg)
	if err := jwtManager.ValidateConfig(); err != nil {
		log.Fatalf("Invalid JWT configuration: %v", err)
	}

	token, err := jwtManager.GenerateToken(*subject, roleList)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("JWT Token generated successfully!\n\n")
	fmt.Printf("Subject: %s\n", *subject)
	fmt.Printf("Roles: %s\n", strings.Join(roleList, ", "))
	fmt.Printf("Expiry: %v\n", jwtCfg.Expiry)
	fmt.Printf("Issuer: %s\n", jwtCfg.Issuer)
	fmt.Printf("Audience: %s\n", jwtCfg.Audience)
	fmt.Printf("\nToken:\n%s\n\n", token)

	fmt.Printf("Usage example:\n")
	fmt.Printf("ASSETS_TOKEN=%s assets list\n", token)
}
