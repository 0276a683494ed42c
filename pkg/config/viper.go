package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/similicana/pkg/dotdir"
)

// EnvPrefix prefixes the environment variables viper reads, with dots in
// the key replaced by underscores (SIMILICANA_SEARCH_RESULT_COUNT).
const EnvPrefix = "SIMILICANA"

// InitViper returns a viper instance layered as flag > env > config.toml >
// default. Flags join the chain once BindRegisteredFlags is called.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(target)

	var notFound viper.ConfigFileNotFoundError
	if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers every config key with its default, rendered
// through the same getters "config get" uses. Viper casts the strings back
// on Get.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)
	for key, info := range configKeys {
		if val := info.get(d); val != "" {
			v.SetDefault(key, val)
		}
	}
}
