package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	AI struct {
		Model string `mapstructure:"model"`
		// GenerationTimeout bounds the single itinerary-generation call.
		// Zero disables the bound and trusts the capability's own limits.
		GenerationTimeout time.Duration `mapstructure:"generationTimeout"`
	} `mapstructure:"ai"`
	Pipeline struct {
		// VerificationTimeout bounds each concurrent verification task.
		VerificationTimeout time.Duration `mapstructure:"verificationTimeout"`
		// ReliabilityFloor is the minimum verdict score that still counts
		// as a successful verification.
		ReliabilityFloor int `mapstructure:"reliabilityFloor"`
	} `mapstructure:"pipeline"`
	Geocode struct {
		BaseURL string        `mapstructure:"baseURL"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"geocode"`
	Catalog struct {
		// RefreshSchedule is a cron expression for the periodic catalog reload.
		RefreshSchedule string        `mapstructure:"refreshSchedule"`
		CacheTTL        time.Duration `mapstructure:"cacheTTL"`
	} `mapstructure:"catalog"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
