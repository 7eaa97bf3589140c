package main

import "testing"

func TestAuthenticateOperator(t *testing.T) {
	err := initAuth(Config{OperatorUser: "ops", OperatorPassword: "secret-pass", JWTSecret: "k"})
	if err != nil {
		t.Fatalf("initAuth: %v", err)
	}
	if err := authenticateOperator("ops", "secret-pass"); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
	if err := authenticateOperator("ops", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if err := authenticateOperator("other", "secret-pass"); err == nil {
		t.Error("wrong username accepted")
	}
}
