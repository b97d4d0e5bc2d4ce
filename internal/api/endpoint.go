package api

import (
	"fmt"
	"strings"
)

// Environment selects which base endpoint the client talks to.
type Environment string

const (
	Development Environment = "dev"
	Production  Environment = "prod"
)

// DefaultEnvironment is used when no environment is configured.
const DefaultEnvironment = Production

var endpoints = map[Environment]string{
	Development: "https://dummyjson.com/recipes",
	Production:  "https://dummyjson.com/recipes",
}

// ParseEnvironment accepts "dev"/"development" and "prod"/"production",
// case-insensitively. Blank input yields DefaultEnvironment.
func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultEnvironment, nil
	case "dev", "development":
		return Development, nil
	case "prod", "production":
		return Production, nil
	default:
		return "", fmt.Errorf("unknown environment %q (want dev or prod)", raw)
	}
}

// Endpoint returns the base recipes endpoint for env.
func Endpoint(env Environment) (string, error) {
	endpoint, ok := endpoints[env]
	if !ok {
		return "", fmt.Errorf("no endpoint for environment %q", env)
	}
	return endpoint, nil
}
