package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Operator credentials are configured through the environment. The password
// is hashed once at startup so login checks never touch the plaintext.
var (
	operatorUser string
	operatorHash []byte
	jwtSecret    []byte
)

func initAuth(cfg Config) error {
	operatorUser = cfg.OperatorUser
	jwtSecret = []byte(cfg.JWTSecret)
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.OperatorPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash operator password: %w", err)
	}
	operatorHash = hash
	return nil
}

func authenticateOperator(username, password string) error {
	if username != operatorUser {
		// Burn a compare anyway so the error timing doesn't leak the username.
		_ = bcrypt.CompareHashAndPassword(operatorHash, []byte(password))
		return fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(operatorHash, []byte(password)); err != nil {
		return fmt.Errorf("invalid credentials")
	}
	return nil
}
