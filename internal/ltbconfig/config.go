// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package ltbconfig loads the ambient configuration the translation core
// itself never touches: the HTTP listen address and the named set of
// BackendProfiles a deployment may choose between. Profile selection per
// request stays external to this package too; it only owns the registry.
package ltbconfig

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/caibirdme/ltbridge/internal/sqlbuilder"
)

// Config aggregates configuration for the application.
type Config struct {
	Server   ServerConfig                          `mapstructure:"server"`
	Profiles map[string]sqlbuilder.BackendProfile `mapstructure:"profiles"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultConfig returns a Config with a single "default" profile set to
// the schema-naming defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Profiles: map[string]sqlbuilder.BackendProfile{
			"default": sqlbuilder.DefaultProfile(),
		},
	}
}

// Load reads configuration from the default "config" file in the working
// directory, if present, and from environment variables. Environment
// variables use the prefix "LTBRIDGE" and the dot character in keys is
// replaced by an underscore, so "server.addr" becomes "LTBRIDGE_SERVER_ADDR".
func Load() (*Config, error) {
	return LoadPath("")
}

// LoadPath reads configuration the same way Load does, except that when
// path is non-empty it is read as an explicit config file instead of the
// default "config" lookup in the working directory.
func LoadPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("LTBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, &cfg)

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Profiles) == 0 {
		cfg.Profiles = map[string]sqlbuilder.BackendProfile{"default": sqlbuilder.DefaultProfile()}
	}
	return &cfg, nil
}

// Profile looks up a named BackendProfile, returning a ProfileError-free
// "not found" bool rather than a typed sqlbuilder error: resolving *which*
// profile applies is external, this just serves the registry.
func (c *Config) Profile(name string) (sqlbuilder.BackendProfile, bool) {
	p, ok := c.Profiles[name]
	return p, ok
}

// bindEnvs registers every key within cfg so that viper looks up the
// corresponding environment variable when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
