package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hongjunna/toporider/internal/auth"
	"github.com/hongjunna/toporider/internal/config"
)

func fixedConfig(secret string) func() config.Config {
	return func() config.Config { return config.Config{JWTSecret: secret} }
}

func TestRunPrintsVerifiableToken(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-user", "rider-3", "-ttl", "1h"}, &stdout, &stderr, fixedConfig("prod-secret")); err != nil {
		t.Fatalf("run error: %v", err)
	}

	userID, err := auth.NewService("prod-secret").Validate(strings.TrimSpace(stdout.String()))
	if err != nil {
		t.Fatalf("token did not validate: %v", err)
	}
	if userID != "rider-3" {
		t.Fatalf("unexpected user %q", userID)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected warning %q", stderr.String())
	}
}

func TestRunRequiresUser(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(nil, &stdout, &stderr, fixedConfig("s")); err == nil {
		t.Fatalf("expected error without -user")
	}
	if stdout.Len() != 0 {
		t.Fatalf("no token expected")
	}
}

func TestRunWarnsOnDefaultSecret(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-user", "rider-1"}, &stdout, &stderr, fixedConfig(config.DefaultJWTSecret)); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if !strings.Contains(stderr.String(), "development JWT_SECRET") {
		t.Fatalf("expected warning, got %q", stderr.String())
	}
}

func TestRunBadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run([]string{"-ttl", "soon", "-user", "x"}, &stdout, &stderr, fixedConfig("s")); err == nil {
		t.Fatalf("expected flag parse error")
	}
}
