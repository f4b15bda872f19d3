// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with github.com/caarlos0/env tags; Load
// fills them after reading an optional .env file through
// github.com/joho/godotenv. Nested structs are parsed recursively, so a
// service config can embed the configs of the packages it wires:
//
//	type Config struct {
//		Log     logger.Config
//		Store   sessionstore.Config
//		Session session.Config
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Load keeps no global cache; every call parses afresh and the caller injects
// the result where it is needed.
package config
