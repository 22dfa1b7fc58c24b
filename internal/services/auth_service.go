package services

import (
	"fmt"
	"log"
	"time"

	"matjar/internal/models"
	"matjar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for trader authentication.
type AuthService struct {
	traderRepo repositories.TraderRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(traderRepo repositories.TraderRepository, jwtSecret string) *AuthService {
	return &AuthService{
		traderRepo: traderRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterTrader registers a new trader, hashes their password, and saves
// them to the database.
func (s *AuthService) RegisterTrader(trader *models.Trader) error {
	// Check if username or email already exists
	if existing, err := s.traderRepo.GetByUsername(trader.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s' already taken", trader.Username)
	}
	if existing, err := s.traderRepo.GetByEmail(trader.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered", trader.Email)
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(trader.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	trader.Password = string(hashedPassword) // Store the hashed password

	if err := s.traderRepo.Create(trader); err != nil {
		return fmt.Errorf("failed to register trader: %w", err)
	}
	return nil
}

// LoginTrader authenticates a trader and returns a JWT token if successful.
func (s *AuthService) LoginTrader(username, password string) (string, error) {
	trader, err := s.traderRepo.GetByUsername(username)
	if err != nil {
		// Do not reveal whether the username exists
		return "", fmt.Errorf("invalid credentials")
	}

	// Compare the provided password with the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(trader.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	// Generate JWT token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"trader_id": trader.ID,
		"username":  trader.Username,
		"exp":       time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":       time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
