package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/linemk/farm-market/internal/config"
	"github.com/linemk/farm-market/internal/domain/models"
	security "github.com/linemk/farm-market/internal/jwt-new"
)

// devtoken печатает bearer-токен для локальной проверки API.
// Пример: go run ./cmd/devtoken -config config/local.yaml -role Buyer
func main() {
	var (
		userIDFlag string
		roleFlag   string
	)
	flag.StringVar(&userIDFlag, "user", "", "user id (uuid), random if empty")
	flag.StringVar(&roleFlag, "role", "Buyer", "role: Farmer, Buyer or Admin")

	cfg := config.MustLoad()

	userID := uuid.New()
	if userIDFlag != "" {
		var err error
		if userID, err = uuid.Parse(userIDFlag); err != nil {
			log.Fatalf("invalid user id: %v", err)
		}
	}
	role, err := models.ParseRole(roleFlag)
	if err != nil {
		log.Fatalf("invalid role: %v", err)
	}

	token, err := security.NewToken(userID, role, time.Duration(cfg.JWT.TokenTTL)*time.Minute, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	log.Printf("user=%s role=%s", userID, role)
	fmt.Println(token)
}
