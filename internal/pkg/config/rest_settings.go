package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// RestConfig aggregates every setting the REST API needs
type RestConfig struct {
	Port          string           `mapstructure:"port" validate:"required"`
	Logger        LoggerSettings   `mapstructure:"logger"`
	Database      DatabaseSettings `mapstructure:"database"`
	Device        DeviceSettings   `mapstructure:"device"`
	ProvidersFile string           `mapstructure:"providers_file" validate:"required"`
	JWTSecret     string           `mapstructure:"jwt_secret"`
}

// Validate checks the RestConfig and every nested settings struct
func (c *RestConfig) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for RestConfig: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Device.Validate(); err != nil {
		return err
	}

	return nil
}

// InitializeRestConfig reads the REST API configuration from the given yaml
// file, applying PID_AGENT_* environment overrides (e.g. PID_AGENT_PORT,
// PID_AGENT_DEVICE_PORT, PID_AGENT_JWT_SECRET).
func InitializeRestConfig(configPath string) (*RestConfig, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	v.SetEnvPrefix("PID_AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setRestDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setRestDefaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("providers_file", "configs/llm_providers.yaml")

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)

	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "data/system.db")

	v.SetDefault("device.port", "VIRTUAL")
	v.SetDefault("device.baud_rate", 115200)
	v.SetDefault("device.num_channels", 16)
	v.SetDefault("device.poll_interval", "1s")
}
