// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

// Package config assembles the run configuration from the environment,
// optionally seeded from a .env file. The result is plain structs handed
// to the orchestrators at construction; nothing reads the environment
// after Load returns.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/easysoft/pgbackup/pkg/db/manage"
)

const (
	StoreTypeS3   = "s3"
	StoreTypeFile = "file"
)

type DbConfig struct {
	Type     manage.DbType
	Host     string
	Port     int32
	Name     string
	User     string
	Password string
}

type StoreConfig struct {
	Type string

	// s3 backend
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string

	// file backend
	FileRoot string
}

type Config struct {
	DB      DbConfig
	Store   StoreConfig
	WorkDir string
}

// Error reports configuration that cannot start a run: unknown selector
// values or required keys that are absent. Nothing is attempted with a
// partial configuration.
type Error struct {
	Missing []string
	Reason  string
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return "configuration error: " + e.Reason
	}
	return "configuration error: missing required settings: " + strings.Join(e.Missing, ", ")
}

// Load reads the environment (and ./.env when present) and validates the
// result. The database credential stays inside the returned struct and is
// never logged.
func Load() (*Config, error) {
	// a missing .env file is fine; real env vars win either way
	_ = godotenv.Load()
	viper.AutomaticEnv()

	viper.SetDefault("DB_TYPE", string(manage.DbTypePostgresql))
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("STORE_TYPE", StoreTypeS3)
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("WORK_DIR", os.TempDir())

	cfg := Config{
		DB: DbConfig{
			Type:     manage.DbType(viper.GetString("DB_TYPE")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt32("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
		},
		Store: StoreConfig{
			Type:      viper.GetString("STORE_TYPE"),
			Endpoint:  viper.GetString("S3_ENDPOINT"),
			Bucket:    viper.GetString("S3_BUCKET"),
			AccessKey: viper.GetString("S3_ACCESS_KEY"),
			SecretKey: viper.GetString("S3_SECRET_KEY"),
			Region:    viper.GetString("S3_REGION"),
			FileRoot:  viper.GetString("FILE_STORE_ROOT"),
		},
		WorkDir: viper.GetString("WORK_DIR"),
	}

	if cfg.DB.Port == 0 {
		cfg.DB.Port = defaultPort(cfg.DB.Type)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultPort(t manage.DbType) int32 {
	switch t {
	case manage.DbTypeMysql:
		return 3306
	default:
		return 5432
	}
}

func (c *Config) validate() error {
	switch c.DB.Type {
	case manage.DbTypePostgresql, manage.DbTypeMysql:
	default:
		return &Error{Reason: fmt.Sprintf("unsupported DB_TYPE %q", c.DB.Type)}
	}

	var missing []string
	appendMissing := func(key, value string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	appendMissing("DB_NAME", c.DB.Name)
	appendMissing("DB_USER", c.DB.User)
	appendMissing("DB_PASSWORD", c.DB.Password)

	switch c.Store.Type {
	case StoreTypeS3:
		appendMissing("S3_ENDPOINT", c.Store.Endpoint)
		appendMissing("S3_BUCKET", c.Store.Bucket)
		appendMissing("S3_ACCESS_KEY", c.Store.AccessKey)
		appendMissing("S3_SECRET_KEY", c.Store.SecretKey)
	case StoreTypeFile:
		appendMissing("FILE_STORE_ROOT", c.Store.FileRoot)
	default:
		return &Error{Reason: fmt.Sprintf("unsupported STORE_TYPE %q", c.Store.Type)}
	}

	if len(missing) > 0 {
		return &Error{Missing: missing}
	}
	return nil
}

// ServiceMeta translates the database section into the manager metadata.
func (c *Config) ServiceMeta() manage.DbServiceMeta {
	return manage.DbServiceMeta{
		Type:          c.DB.Type,
		Host:          c.DB.Host,
		Port:          c.DB.Port,
		AdminUser:     c.DB.User,
		AdminPassword: c.DB.Password,
	}
}
