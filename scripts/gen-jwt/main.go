// Genera un token HS256 para probar la API en modo AUTH_MODE=jwt.
// Uso: go run ./scripts/gen-jwt -sub <user-id> [-email x@y] [-staff]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	sub := flag.String("sub", "test-user", "subject (user id)")
	email := flag.String("email", "", "email claim")
	staff := flag.Bool("staff", false, "staff claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("AUTH_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": *sub,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(*ttl)),
	}
	if *email != "" {
		claims["email"] = *email
	}
	if *staff {
		claims["staff"] = true
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}

	fmt.Println(signed)
}
