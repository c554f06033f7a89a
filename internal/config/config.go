package config

import (
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/sangkips/pharmacy-api/internal/domain/entity"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	StoreDriver string
	Database    DatabaseConfig
	Mongo       MongoConfig
	JWT         JWTConfig
	Operator    OperatorConfig
	AuthEnabled bool
	Storage     StorageConfig
	Printer     PrinterConfig
	Business    entity.BusinessInfo
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Timezone    string
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

// OperatorConfig is the single counter login. PasswordHash is a bcrypt hash.
type OperatorConfig struct {
	Username     string
	DisplayName  string
	PasswordHash string
}

type StorageConfig struct {
	Driver        string
	Path          string
	UploadMaxSize int64
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3Prefix      string
}

type PrinterConfig struct {
	Type       string
	Target     string
	PaperWidth int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

const defaultBusinessName = "Pharmacy"

// Store drivers
const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pharmacy-api")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "pharmacy")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "pharmacy")
	v.SetDefault("MONGO_TIMEOUT_SECONDS", 10)
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 12)
	v.SetDefault("OPERATOR_USERNAME", "admin")
	v.SetDefault("OPERATOR_DISPLAY_NAME", "")
	v.SetDefault("OPERATOR_PASSWORD_HASH", "")
	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_PATH", "./storage")
	v.SetDefault("UPLOAD_MAX_SIZE", 10485760)
	v.SetDefault("S3_REGION", "ap-south-1")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_TARGET", "")
	v.SetDefault("PRINTER_PAPER_WIDTH", 32)
	v.SetDefault("BUSINESS_PROFILE", "config/business.toml")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CORS_ALLOWED_METHODS", []string{})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
}

// Load reads .env and the environment
func Load() *Config {
	return LoadFrom(".env")
}

// LoadFrom reads envFile (if present) and the environment. Environment wins.
func LoadFrom(envFile string) *Config {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: %s file not found, using environment variables: %v", envFile, err)
	}
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			Timezone: v.GetString("DB_TIMEZONE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGO_TIMEOUT_SECONDS")) * time.Second,
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(v.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		Operator: OperatorConfig{
			Username:     v.GetString("OPERATOR_USERNAME"),
			DisplayName:  v.GetString("OPERATOR_DISPLAY_NAME"),
			PasswordHash: v.GetString("OPERATOR_PASSWORD_HASH"),
		},
		AuthEnabled: v.GetBool("AUTH_ENABLED"),
		Storage: StorageConfig{
			Driver:        v.GetString("STORAGE_DRIVER"),
			Path:          v.GetString("STORAGE_PATH"),
			UploadMaxSize: v.GetInt64("UPLOAD_MAX_SIZE"),
			S3Bucket:      v.GetString("S3_BUCKET"),
			S3Region:      v.GetString("S3_REGION"),
			S3Endpoint:    v.GetString("S3_ENDPOINT"),
			S3AccessKey:   v.GetString("S3_ACCESS_KEY"),
			S3SecretKey:   v.GetString("S3_SECRET_KEY"),
			S3Prefix:      v.GetString("S3_PREFIX"),
		},
		Printer: PrinterConfig{
			Type:       v.GetString("PRINTER_TYPE"),
			Target:     v.GetString("PRINTER_TARGET"),
			PaperWidth: v.GetInt("PRINTER_PAPER_WIDTH"),
		},
		Business: loadBusiness(v),
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Timezone: v.GetString("APP_TIMEZONE"),
	}
}

// loadBusiness reads the [business] table of the profile file, then lets
// BUSINESS_* variables override single fields.
func loadBusiness(env *viper.Viper) entity.BusinessInfo {
	var info entity.BusinessInfo

	profile := viper.New()
	profile.SetConfigFile(env.GetString("BUSINESS_PROFILE"))
	profile.SetConfigType("toml")
	if err := profile.ReadInConfig(); err == nil {
		if err := profile.UnmarshalKey("business", &info); err != nil {
			log.Printf("Warning: invalid business profile: %v", err)
		}
	}

	override := func(dst *string, key string) {
		if value := env.GetString(key); value != "" {
			*dst = value
		}
	}
	override(&info.Name, "BUSINESS_NAME")
	override(&info.Address, "BUSINESS_ADDRESS")
	override(&info.DLNo, "BUSINESS_DL_NO")
	override(&info.GSTIN, "BUSINESS_GSTIN")
	override(&info.Phone1, "BUSINESS_PHONE1")
	override(&info.Phone2, "BUSINESS_PHONE2")
	if info.Name == "" {
		info.Name = defaultBusinessName
	}
	return info
}

// Location resolves the configured timezone, falling back to local time
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using local time: %v", c.Timezone, err)
		return time.Local
	}
	return loc
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
