package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Port          int    `mapstructure:"PORT"`
	Env           string `mapstructure:"ENV"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	ClientURL     string `mapstructure:"CLIENT_URL"`
	MailtrapToken string `mapstructure:"MAILTRAP_TOKEN"`
	SenderEmail   string `mapstructure:"SENDER_EMAIL"`
	SenderName    string `mapstructure:"SENDER_NAME"`
}

// IsProduction controls the Secure flag on the session cookie.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set default values
	viper.SetDefault("PORT", 3000)
	viper.SetDefault("ENV", "development")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "auth_service")
	viper.SetDefault("JWT_SECRET", "your-secret-key")
	viper.SetDefault("CLIENT_URL", "http://localhost:5173")
	// AutomaticEnv only surfaces keys viper already knows about, so even
	// env-only keys need a default to be seen by Unmarshal.
	viper.SetDefault("MAILTRAP_TOKEN", "")
	viper.SetDefault("SENDER_EMAIL", "no-reply@example.com")
	viper.SetDefault("SENDER_NAME", "Auth Service")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
