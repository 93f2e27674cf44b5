//go:build tools

package main

// Pins the swag CLI used to regenerate the OpenAPI spec from handler
// annotations (swag init -g cmd/api/main.go).
import (
	_ "github.com/swaggo/swag"
)
