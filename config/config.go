package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	Store  StoreConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Clinic ClinicConfig
	Sync   SyncConfig
	Backup BackupConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type StoreConfig struct {
	// Path is the on-disk JSON mirror of the canonical document.
	Path string
	// TemplatesPath holds prescription templates bundled into backups.
	TemplatesPath string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type ClinicConfig struct {
	// Name of the primary clinic, used when seeding a fresh document.
	Name string
	// BranchName of the expected second clinic; load-time migration
	// repairs it when missing or misnamed.
	BranchName string
	// StartingCode is the patient-code counter floor.
	StartingCode int
	// DefaultAdminPassword seeds the first admin account (hashed before storage).
	DefaultAdminPassword string
}

type SyncConfig struct {
	// Enabled toggles the cloud mirror; when false the service runs
	// local-only and reports status "offline".
	Enabled bool
	// DocumentID is the fixed id of the remote snapshot row.
	DocumentID string
	// Channel is the Redis pub/sub channel announcing remote updates.
	Channel string
	// Debounce is the quiet period that collapses a mutation burst
	// into a single push.
	Debounce time.Duration
}

type BackupConfig struct {
	Dir string
	// Schedule is a cron expression; empty disables scheduled backups.
	Schedule string
	// Keep is the number of backup files retained during pruning.
	Keep int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// A missing .env is fine in containerized deployments where
	// everything arrives through the environment.
	if err := viper.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	debounce, err := time.ParseDuration(viper.GetString("SYNC_DEBOUNCE"))
	if err != nil {
		debounce = 500 * time.Millisecond
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Store: StoreConfig{
			Path:          viper.GetString("STORE_PATH"),
			TemplatesPath: viper.GetString("STORE_TEMPLATES_PATH"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Clinic: ClinicConfig{
			Name:                 viper.GetString("CLINIC_NAME"),
			BranchName:           viper.GetString("CLINIC_BRANCH_NAME"),
			StartingCode:         viper.GetInt("CLINIC_STARTING_CODE"),
			DefaultAdminPassword: viper.GetString("CLINIC_DEFAULT_ADMIN_PASSWORD"),
		},
		Sync: SyncConfig{
			Enabled:    viper.GetBool("SYNC_ENABLED"),
			DocumentID: viper.GetString("SYNC_DOCUMENT_ID"),
			Channel:    viper.GetString("SYNC_CHANNEL"),
			Debounce:   debounce,
		},
		Backup: BackupConfig{
			Dir:      viper.GetString("BACKUP_DIR"),
			Schedule: viper.GetString("BACKUP_SCHEDULE"),
			Keep:     viper.GetInt("BACKUP_KEEP"),
		},
	}

	if config.Store.Path == "" {
		config.Store.Path = "data/clinic.json"
	}
	if config.Clinic.Name == "" {
		config.Clinic.Name = "Alexandria"
	}
	if config.Clinic.BranchName == "" {
		config.Clinic.BranchName = "Shubrakhit"
	}
	if config.Clinic.DefaultAdminPassword == "" {
		config.Clinic.DefaultAdminPassword = "admin"
	}
	if config.Sync.DocumentID == "" {
		config.Sync.DocumentID = "clinic_master_data"
	}
	if config.Sync.Channel == "" {
		config.Sync.Channel = "clinic:sync:updated"
	}
	if config.Backup.Keep <= 0 {
		config.Backup.Keep = 14
	}

	return config, nil
}
