// Package config loads service configuration with viper.
//
// Values are read from a YAML file (config.yml, then config.{environment}.yml
// merged over it), from a .env file loaded with godotenv, and from environment
// variables carrying the service prefix:
//
//	RECORDKIT_AUTH_JWT_SECRET=... -> auth.jwt_secret
//
// Every config struct applies its own defaults and validates itself once
// loading is done.
package config
