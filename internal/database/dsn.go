package database

import (
	"fmt"
	"net"
	"net/url"
	"os"

	"github.com/cybertec-postgresql/pgscript/pkg/types"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is the .env-style file consulted when DATABASE_URL is not
// set in the environment.
const DefaultEnvFile = ".env.local"

const (
	envDatabaseURL = "DATABASE_URL"

	envSupabaseHost     = "SUPABASE_DB_HOST"
	envSupabasePort     = "SUPABASE_DB_PORT"
	envSupabaseUser     = "SUPABASE_DB_USER"
	envSupabaseName     = "SUPABASE_DB_NAME"
	envSupabasePassword = "SUPABASE_DB_PASSWORD"
)

// ResolveConnectionString finds a connection string in this order:
//  1. DATABASE_URL in the environment (via lookup)
//  2. DATABASE_URL in envFile
//  3. a URI composed from SUPABASE_DB_* keys in envFile, which needs at least
//     host, user and password; port defaults to 5432 and database to postgres
//
// A missing env file is not an error by itself.
func ResolveConnectionString(lookup func(string) (string, bool), envFile string) (string, error) {
	if v, ok := lookup(envDatabaseURL); ok && v != "" {
		return v, nil
	}

	if envFile == "" {
		envFile = DefaultEnvFile
	}

	vars, err := readEnvFile(envFile)
	if err != nil {
		return "", err
	}

	if v := vars[envDatabaseURL]; v != "" {
		return v, nil
	}
	if connString := composeSupabaseURL(vars); connString != "" {
		return connString, nil
	}

	return "", &types.ConfigError{
		Field:      "connection",
		Message:    "DATABASE_URL is not set",
		Suggestion: fmt.Sprintf("Add DATABASE_URL to %s, set it in the environment, or pass --connection", envFile),
	}
}

func readEnvFile(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return vars, nil
}

func composeSupabaseURL(vars map[string]string) string {
	host := vars[envSupabaseHost]
	user := vars[envSupabaseUser]
	password := vars[envSupabasePassword]
	if host == "" || user == "" || password == "" {
		return ""
	}

	port := vars[envSupabasePort]
	if port == "" {
		port = "5432"
	}
	name := vars[envSupabaseName]
	if name == "" {
		name = "postgres"
	}

	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=require",
	}
	return u.String()
}
