package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Slack    SlackConfig
	Award    AwardConfig
	Decay    DecayConfig
	JWT      JWTConfig
	Admin    AdminConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// SlackConfig holds the chat gateway credentials. MockGateway replaces the
// real client when no bot token is configured or Mock is set.
type SlackConfig struct {
	BotToken      string
	SigningSecret string
	Mock          bool
}

// AwardConfig holds the tunables of the award workflow
type AwardConfig struct {
	// GiverPrizeInterval is the outgoing-award count granting a bonus
	// banana (every Nth transfer).
	GiverPrizeInterval int
	// UnlockLevel is the level at which avatar customization opens up.
	UnlockLevel int
}

// DecayConfig holds the inactivity penalty settings
type DecayConfig struct {
	// Schedule is a cron expression for the monthly run.
	Schedule string
	// Penalty is the number of bananas deducted from inactive users.
	Penalty int
}

// JWTConfig holds JWT-specific configuration for the admin API
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// AdminConfig holds the operator credential used for the admin API. The
// password is stored as a bcrypt hash.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "3000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "cesar")
	viper.SetDefault("Slack.Mock", false)
	viper.SetDefault("Award.GiverPrizeInterval", 3)
	viper.SetDefault("Award.UnlockLevel", 2)
	viper.SetDefault("Decay.Schedule", "0 9 1 * *") // 09:00 on the 1st of each month
	viper.SetDefault("Decay.Penalty", 2)
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
}
