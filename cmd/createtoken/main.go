package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fieldwork.com/console/security"
)

func main() {
	userID := flag.Int("user", 1, "user id")
	email := flag.String("email", "", "email claim")
	role := flag.String("role", "admin", "role claim")
	expiresIn := flag.Duration("expires", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	token, err := security.CreateIdentityToken(security.Identity{UserID: *userID, Email: *email, Role: *role}, secret, *expiresIn)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
