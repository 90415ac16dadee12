package config

import (
	"errors"
	"fmt"

	"github.com/sboli/rcstrap/pkg/database"
	"github.com/spf13/viper"
)

// Config is the static process configuration: where to listen and where to
// store messages. Simulation behavior (webhook target, delivery odds) is
// dynamic and lives in service.ConfigService instead.
type Config struct {
	API      API             `mapstructure:"api"`
	Database database.Config `mapstructure:"database"`
}

type API struct {
	Port string `mapstructure:"port"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	viper.SetDefault("api.port", ":3001")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "rcstrap.db")

	// The simulator must start with zero setup; a missing file means
	// defaults, any other read failure is fatal.
	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
