package main

import (
	"flag"
	"fmt"
	"os"

	"towntriphub/internal/shared/auth"
	"towntriphub/internal/shared/config"

	"github.com/joho/godotenv"
)

func main() {
	userID := flag.String("user", "550e8400-e29b-41d4-a716-446655440000", "User ID (UUID)")
	email := flag.String("email", "test@example.com", "Email address")
	role := flag.String("role", "RIDER", "Role (RIDER|DRIVER|OPERATOR)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	jwtService := auth.NewJWTService(cfg.JWT)

	token, err := jwtService.GenerateToken(*userID, *email, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nJWT Token generated successfully!\n\n")
	fmt.Printf("User ID:   %s\n", *userID)
	fmt.Printf("Email:     %s\n", *email)
	fmt.Printf("Role:      %s\n", *role)
	fmt.Printf("\nToken:\n%s\n", token)
	fmt.Printf("\nCopy this for API requests:\n")
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Printf("\nExample curl:\n")
	fmt.Printf("curl -X POST http://localhost:3000/bookings/ride \\\n")
	fmt.Printf("  -H 'Authorization: Bearer %s' \\\n", token)
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\n")
	fmt.Printf("    \"pickup_address\": \"Albert Market, Banjul\",\n")
	fmt.Printf("    \"pickup_lat\": 13.4549,\n")
	fmt.Printf("    \"pickup_lng\": -16.5790,\n")
	fmt.Printf("    \"destination_address\": \"Senegambia Strip, Kololi\",\n")
	fmt.Printf("    \"destination_lat\": 13.4208,\n")
	fmt.Printf("    \"destination_lng\": -16.7152\n")
	fmt.Printf("  }'\n\n")
}
