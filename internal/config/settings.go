package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/album-catalog/internal/audio"
	"github.com/handiism/album-catalog/internal/cache"
	"github.com/handiism/album-catalog/internal/export"
	"github.com/handiism/album-catalog/internal/storage"
	"github.com/handiism/album-catalog/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CATALOG_DATABASE_DSN.
const EnvPrefix = "CATALOG"

// Settings holds all configuration options.
type Settings struct {
	Database DatabaseSettings `mapstructure:"database"`
	Redis    RedisSettings    `mapstructure:"redis"`
	Cache    CacheSettings    `mapstructure:"cache"`
	Storage  StorageSettings  `mapstructure:"storage"`
	Site     SiteSettings     `mapstructure:"site"`
	Tags     TagSettings      `mapstructure:"tags"`
	Log      LogSettings      `mapstructure:"log"`
	Export   ExportSettings   `mapstructure:"export"`
}

type DatabaseSettings struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

type RedisSettings struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type CacheSettings struct {
	Driver string        `mapstructure:"driver"` // memory, redis
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type StorageSettings struct {
	Driver string `mapstructure:"driver"` // local, http, minio

	// Root is the track file directory of the local driver.
	Root string `mapstructure:"root"`

	// FilesDir receives generated album archives.
	FilesDir string `mapstructure:"files_dir"`

	BaseURL     string        `mapstructure:"base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

type SiteSettings struct {
	BaseURL string `mapstructure:"base_url"`
	Name    string `mapstructure:"name"`
}

// TagSettings map to audio.TagConfig. Each action is "modify", "empty"
// or "keep".
type TagSettings struct {
	ModifyTags  bool   `mapstructure:"modify_tags"`
	Artist      string `mapstructure:"artist"`
	AlbumArtist string `mapstructure:"album_artist"`
	Album       string `mapstructure:"album"`
	Year        string `mapstructure:"year"`
	TrackNumber string `mapstructure:"track_number"`
	TrackTitle  string `mapstructure:"track_title"`
	Lyrics      string `mapstructure:"lyrics"`
	Comments    string `mapstructure:"comments"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, console
}

type ExportSettings struct {
	MaxConcurrentProbes int     `mapstructure:"max_concurrent_probes"`
	RetagConcurrency    int     `mapstructure:"retag_concurrency"`
	OpenMaxRetries      int     `mapstructure:"open_max_retries"`
	RetryCooldown       float64 `mapstructure:"retry_cooldown"`
	RetryExponent       float64 `mapstructure:"retry_exponent"`
	PlaylistFormat      string  `mapstructure:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended         bool    `mapstructure:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, "AlbumCatalog")

	return &Settings{
		Database: DatabaseSettings{
			Driver:          "sqlite",
			DSN:             "file:" + filepath.Join(dataDir, "catalog.db"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 15 * time.Minute,
			LogLevel:        "warn",
		},
		Redis: RedisSettings{
			Addr:         "localhost:6379",
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Cache: CacheSettings{
			Driver: "memory",
			Prefix: "album-catalog",
			TTL:    1440 * time.Minute,
		},
		Storage: StorageSettings{
			Driver:      "local",
			Root:        filepath.Join(dataDir, "files"),
			FilesDir:    filepath.Join(dataDir, "files"),
			HTTPTimeout: 30 * time.Second,
			Bucket:      "tracks",
		},
		Site: SiteSettings{
			BaseURL: "http://localhost:8000",
			Name:    "Album Catalog",
		},
		Tags: TagSettings{
			ModifyTags:  true,
			Artist:      "modify",
			AlbumArtist: "modify",
			Album:       "modify",
			Year:        "modify",
			TrackNumber: "modify",
			TrackTitle:  "modify",
			Lyrics:      "modify",
			Comments:    "empty",
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
		Export: ExportSettings{
			MaxConcurrentProbes: 4,
			RetagConcurrency:    4,
			OpenMaxRetries:      7,
			RetryCooldown:       0.2,
			RetryExponent:       4.0,
			PlaylistFormat:      "m3u",
			M3UExtended:         true,
		},
	}
}

// Load reads settings from path, then applies a .env file in the working
// directory and CATALOG_* environment variables on top. A missing file
// yields the defaults. An empty path skips the file.
func Load(path string) (*Settings, error) {
	_ = godotenv.Load()

	v := newViper(DefaultSettings())

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return settings, nil
}

// Save writes settings to path. The encoding follows the file extension
// (json, yaml, toml).
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	v := viper.New()
	for key, value := range s.values() {
		v.Set(key, value)
	}
	return v.WriteConfigAs(path)
}

func newViper(defaults *Settings) *viper.Viper {
	v := viper.New()
	for key, value := range defaults.values() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// values flattens the settings into viper keys. Every key must be listed
// here for environment overrides to reach Unmarshal.
func (s *Settings) values() map[string]any {
	return map[string]any{
		"database.driver":             s.Database.Driver,
		"database.dsn":                s.Database.DSN,
		"database.max_idle_conns":     s.Database.MaxIdleConns,
		"database.max_open_conns":     s.Database.MaxOpenConns,
		"database.conn_max_lifetime":  s.Database.ConnMaxLifetime.String(),
		"database.conn_max_idle_time": s.Database.ConnMaxIdleTime.String(),
		"database.log_level":          s.Database.LogLevel,

		"redis.addr":          s.Redis.Addr,
		"redis.password":      s.Redis.Password,
		"redis.db":            s.Redis.DB,
		"redis.pool_size":     s.Redis.PoolSize,
		"redis.dial_timeout":  s.Redis.DialTimeout.String(),
		"redis.read_timeout":  s.Redis.ReadTimeout.String(),
		"redis.write_timeout": s.Redis.WriteTimeout.String(),

		"cache.driver": s.Cache.Driver,
		"cache.prefix": s.Cache.Prefix,
		"cache.ttl":    s.Cache.TTL.String(),

		"storage.driver":            s.Storage.Driver,
		"storage.root":              s.Storage.Root,
		"storage.files_dir":         s.Storage.FilesDir,
		"storage.base_url":          s.Storage.BaseURL,
		"storage.http_timeout":      s.Storage.HTTPTimeout.String(),
		"storage.endpoint":          s.Storage.Endpoint,
		"storage.access_key_id":     s.Storage.AccessKeyID,
		"storage.secret_access_key": s.Storage.SecretAccessKey,
		"storage.bucket":            s.Storage.Bucket,
		"storage.region":            s.Storage.Region,
		"storage.use_ssl":           s.Storage.UseSSL,

		"site.base_url": s.Site.BaseURL,
		"site.name":     s.Site.Name,

		"tags.modify_tags":  s.Tags.ModifyTags,
		"tags.artist":       s.Tags.Artist,
		"tags.album_artist": s.Tags.AlbumArtist,
		"tags.album":        s.Tags.Album,
		"tags.year":         s.Tags.Year,
		"tags.track_number": s.Tags.TrackNumber,
		"tags.track_title":  s.Tags.TrackTitle,
		"tags.lyrics":       s.Tags.Lyrics,
		"tags.comments":     s.Tags.Comments,

		"log.level":  s.Log.Level,
		"log.format": s.Log.Format,

		"export.max_concurrent_probes": s.Export.MaxConcurrentProbes,
		"export.retag_concurrency":     s.Export.RetagConcurrency,
		"export.open_max_retries":      s.Export.OpenMaxRetries,
		"export.retry_cooldown":        s.Export.RetryCooldown,
		"export.retry_exponent":        s.Export.RetryExponent,
		"export.playlist_format":       s.Export.PlaylistFormat,
		"export.m3u_extended":          s.Export.M3UExtended,
	}
}

// ToStoreConfig converts settings to store.Config.
func (s *Settings) ToStoreConfig() *store.Config {
	return &store.Config{
		Driver:          s.Database.Driver,
		DSN:             s.Database.DSN,
		MaxIdleConns:    s.Database.MaxIdleConns,
		MaxOpenConns:    s.Database.MaxOpenConns,
		ConnMaxLifetime: s.Database.ConnMaxLifetime,
		ConnMaxIdleTime: s.Database.ConnMaxIdleTime,
		LogLevel:        s.Database.LogLevel,
	}
}

// ToRedisConfig converts settings to cache.RedisConfig.
func (s *Settings) ToRedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:         s.Redis.Addr,
		Password:     s.Redis.Password,
		DB:           s.Redis.DB,
		PoolSize:     s.Redis.PoolSize,
		DialTimeout:  s.Redis.DialTimeout,
		ReadTimeout:  s.Redis.ReadTimeout,
		WriteTimeout: s.Redis.WriteTimeout,
	}
}

// ToCacheOptions converts settings to cache.Options.
func (s *Settings) ToCacheOptions() *cache.Options {
	return &cache.Options{
		DefaultTTL: s.Cache.TTL,
		KeyPrefix:  s.Cache.Prefix,
	}
}

// ToMinioConfig converts settings to storage.MinioConfig.
func (s *Settings) ToMinioConfig() storage.MinioConfig {
	return storage.MinioConfig{
		Endpoint:        s.Storage.Endpoint,
		AccessKeyID:     s.Storage.AccessKeyID,
		SecretAccessKey: s.Storage.SecretAccessKey,
		BucketName:      s.Storage.Bucket,
		Region:          s.Storage.Region,
		UseSSL:          s.Storage.UseSSL,
	}
}

// ToTagConfig converts settings to audio.TagConfig.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	return &audio.TagConfig{
		ModifyTags:  s.Tags.ModifyTags,
		Artist:      audio.ParseTagEditAction(s.Tags.Artist),
		AlbumArtist: audio.ParseTagEditAction(s.Tags.AlbumArtist),
		Album:       audio.ParseTagEditAction(s.Tags.Album),
		Year:        audio.ParseTagEditAction(s.Tags.Year),
		TrackNumber: audio.ParseTagEditAction(s.Tags.TrackNumber),
		TrackTitle:  audio.ParseTagEditAction(s.Tags.TrackTitle),
		Lyrics:      audio.ParseTagEditAction(s.Tags.Lyrics),
		Comments:    audio.ParseTagEditAction(s.Tags.Comments),
	}
}

// ToExportSettings converts settings to export.Settings.
func (s *Settings) ToExportSettings() export.Settings {
	return export.Settings{
		FilesDir:            s.Storage.FilesDir,
		MaxConcurrentProbes: s.Export.MaxConcurrentProbes,
		OpenMaxRetries:      s.Export.OpenMaxRetries,
		RetryCooldown:       s.Export.RetryCooldown,
		RetryExponent:       s.Export.RetryExponent,
		Playlist:            audio.ParsePlaylistFormat(s.Export.PlaylistFormat),
		M3UExtended:         s.Export.M3UExtended,
	}
}
