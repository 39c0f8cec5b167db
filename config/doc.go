// Package config loads service configuration with viper.
//
// Values come from a config.yml found next to the service's cmd directory,
// an optional .env file (godotenv), and the process environment, where
// SERVER_PORT addresses server.port. Plain variables such as PORT can be
// mapped onto nested keys with WithEnvAlias.
package config
