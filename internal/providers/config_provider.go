package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"avatard/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "AVATARD_LOG_LEVEL")
	viper.BindEnv("revalidation.interval", "AVATARD_REVALIDATION_INTERVAL")
	viper.BindEnv("persistence.saveInterval", "AVATARD_SAVE_INTERVAL")
	viper.BindEnv("store.maxEntries", "AVATARD_STORE_MAX_ENTRIES")
	viper.BindEnv("store.maxMemoryMB", "AVATARD_STORE_MAX_MEMORY_MB")
	viper.BindEnv("cache.enabled", "AVATARD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "AVATARD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "AvatarResolutionDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
