package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// settings holds the defaults read from the configuration file and
// the ARBOR_* environment variables.
type settings struct {
	Algorithm string
	Workers   int
	Redis     redisSettings
	SQL       sqlSettings
	Mongo     mongoSettings
	Log       logSettings
}

type redisSettings struct {
	Addr   string
	DB     int
	Prefix string
}

type sqlSettings struct {
	Table string
}

type mongoSettings struct {
	Collection string
}

type logSettings struct {
	File  string
	Level string
}

/*
loadSettings reads the configuration file at configPath, if given, and
returns the settings in it with the environment variables prefixed with
ARBOR_ taking precedence (ARBOR_REDIS_ADDR for redis.addr, etc.).
*/
func loadSettings(configPath string) (*settings, error) {
	v := viper.New()
	v.SetDefault("algorithm", "ID3")
	v.SetDefault("workers", 1)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "arbor")
	v.SetDefault("sql.table", "samples")
	v.SetDefault("mongo.collection", "samples")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "")
	v.SetEnvPrefix("arbor")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %v", configPath, err)
		}
	}
	s := &settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("parsing config: %v", err)
	}
	return s, nil
}
