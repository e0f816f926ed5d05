package config

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/haimult/pulse-survey-server/models"
)

type Config struct {
	Server   Server
	Database Database
	Supabase Supabase
	// JWTSecret signs builder session tokens.
	JWTSecret string
	// LegacySecret keys the deterministic lookup hash for records
	// created under the old hashed-identifier scheme.
	LegacySecret string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Supabase struct {
	URL    string
	Key    string
	Bucket string
}

// DB is the shared gorm handle, set by ConnectDB.
var DB *gorm.DB

func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("no .env file, relying on environment")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SUPABASE_BUCKET", "survey-exports")

	var cfg Config
	cfg.Server.Port = viper.GetString("SERVER_PORT")
	cfg.Database.Host = viper.GetString("DB_HOST")
	cfg.Database.Port = viper.GetString("DB_PORT")
	cfg.Database.User = viper.GetString("DB_USER")
	cfg.Database.Password = viper.GetString("DB_PASSWORD")
	cfg.Database.Name = viper.GetString("DB_NAME")
	cfg.Database.SSLMode = viper.GetString("DB_SSLMODE")
	cfg.Supabase.URL = viper.GetString("SUPABASE_URL")
	cfg.Supabase.Key = viper.GetString("SUPABASE_KEY")
	cfg.Supabase.Bucket = viper.GetString("SUPABASE_BUCKET")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.LegacySecret = viper.GetString("LEGACY_LOOKUP_SECRET")

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	if cfg.LegacySecret == "" {
		return nil, fmt.Errorf("LEGACY_LOOKUP_SECRET is not set")
	}
	return &cfg, nil
}

// ConnectDB opens PostgreSQL and migrates the schema. TranslateError
// lets unique violations surface as gorm.ErrDuplicatedKey instead of
// driver-specific strings.
func ConnectDB(cfg *Config) error {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Database.Host, cfg.Database.User, cfg.Database.Password,
		cfg.Database.Name, cfg.Database.Port, cfg.Database.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Respondent{},
		&models.SurveyConfig{},
		&models.CustomQuestion{},
		&models.SurveyResponse{},
		&models.QuestionResponse{},
		&models.ExportJob{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	DB = db
	log.Info().Msg("connected to PostgreSQL and migrated schema")
	return nil
}
