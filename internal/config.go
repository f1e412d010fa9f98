package internal

import "os"

// MustGetenv returns the value of a required environment variable and panics when it is blank.
func MustGetenv(key string) string {
	value := os.Getenv(key)
	if TrimLines(value) == "" {
		panic(key + " is empty")
	}
	return value
}

// Getenv returns the value of an optional environment variable or fallback when it is blank.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); TrimLines(value) != "" {
		return value
	}
	return fallback
}
