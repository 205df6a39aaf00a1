package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/KiwiStays/KiwiOps/backend/services/housekeeping-service/internal/constants"
	"github.com/KiwiStays/KiwiOps/backend/shared/go-utils"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	CORSOrigins      []string

	// Database
	MongoURI    string
	MongoDBName string

	// Housekeeping
	ChecklistCatalog       []string
	NightlyResetCron       string
	NightlyResetTZ         *time.Location
	MediaUploadConcurrency int
	MaxUploadBytes         int64
	UploadTmpDir           string

	// Object storage
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	CloudinaryBaseURL   string
	LocalStoreDir       string
	LocalStoreBaseURL   string

	// Logging
	LogFile utils.LogFileOptions

	// LaunchDarkly flags
	LDFlag_SeedDbWithTestData  bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_NightlyResetEnabled bool
	LDFlag_UseCloudinary       bool

	ldSDKKey string
}

// envConfig is the raw environment, parsed by caarlos0/env.
type envConfig struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	AppUrl  string `env:"APP_URL_FROM_ANYWHERE" envDefault:"http://localhost:8080"`

	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://kiwiops.in,https://api.kiwiops.in"`

	MongoURI    string `env:"MONGO_URI,required,notEmpty"`
	MongoDBName string `env:"MONGO_DB_NAME" envDefault:"kiwiops"`

	ChecklistItems         []string `env:"CHECKLIST_ITEMS" envSeparator:","`
	NightlyResetCron       string   `env:"NIGHTLY_RESET_CRON" envDefault:"0 0 * * *"`
	NightlyResetTZ         string   `env:"NIGHTLY_RESET_TZ" envDefault:"Asia/Kolkata"`
	MediaUploadConcurrency int      `env:"MEDIA_UPLOAD_CONCURRENCY" envDefault:"4"`
	MaxUploadMB            int64    `env:"MAX_UPLOAD_MB" envDefault:"32"`
	UploadTmpDir           string   `env:"UPLOAD_TMP_DIR"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"property_images"`
	CloudinaryBaseURL   string `env:"CLOUDINARY_BASE_URL" envDefault:"https://api.cloudinary.com"`
	LocalStoreDir       string `env:"LOCAL_STORE_DIR" envDefault:"./uploads"`
	LocalStoreBaseURL   string `env:"LOCAL_STORE_BASE_URL" envDefault:"http://localhost:8080/uploads"`

	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"14"`

	LDSDKKey string `env:"LD_SDK_KEY"`

	// Flag values used when LD_SDK_KEY is not set.
	FlagSeedDbWithTestData  bool `env:"LDFLAG_SEED_DB_WITH_TEST_DATA" envDefault:"false"`
	FlagCORSHighSecurity    bool `env:"LDFLAG_CORS_HIGH_SECURITY" envDefault:"false"`
	FlagNightlyResetEnabled bool `env:"LDFLAG_NIGHTLY_RESET_ENABLED" envDefault:"true"`
	FlagUseCloudinary       bool `env:"LDFLAG_USE_CLOUDINARY" envDefault:"false"`
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
)

// build-time overrides
var (
	AppName             = "housekeeping-service"
	LDServerContextKey  = "housekeeping-service"
	LDServerContextKind = "service"
)

// LoadConfig reads .env (if present) and the environment, then resolves
// feature flags. Any problem is fatal.
func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file loaded; using process environment only")
	}

	cfg, err := FromEnv()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}

	if cfg.ldSDKKey != "" {
		if err := cfg.loadLDFlags(cfg.ldSDKKey); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to load LaunchDarkly flags")
		}
	} else {
		utils.Logger.Info("LD_SDK_KEY not set; feature flags come from LDFLAG_* env vars")
	}

	if cfg.LDFlag_UseCloudinary &&
		(cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "") {
		utils.Logger.Fatal("use_cloudinary enabled but CLOUDINARY_CLOUD_NAME / CLOUDINARY_API_KEY / CLOUDINARY_API_SECRET missing")
	}
	return cfg
}

// FromEnv parses the process environment into a Config with env-sourced
// flag values. It does not contact LaunchDarkly.
func FromEnv() (*Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}

	catalog := cleanItems(raw.ChecklistItems)
	if len(catalog) == 0 {
		catalog = append([]string{}, constants.DefaultChecklistCatalog...)
	}

	loc, err := time.LoadLocation(raw.NightlyResetTZ)
	if err != nil {
		return nil, fmt.Errorf("NIGHTLY_RESET_TZ %q: %w", raw.NightlyResetTZ, err)
	}
	if raw.MediaUploadConcurrency <= 0 {
		return nil, errors.New("MEDIA_UPLOAD_CONCURRENCY must be positive")
	}
	if raw.MaxUploadMB <= 0 {
		return nil, errors.New("MAX_UPLOAD_MB must be positive")
	}

	cfg := &Config{
		OrganizationName:       OrganizationName,
		AppName:                AppName,
		AppPort:                raw.AppPort,
		AppUrl:                 raw.AppUrl,
		CORSOrigins:            cleanItems(raw.CORSOrigins),
		MongoURI:               raw.MongoURI,
		MongoDBName:            raw.MongoDBName,
		ChecklistCatalog:       catalog,
		NightlyResetCron:       raw.NightlyResetCron,
		NightlyResetTZ:         loc,
		MediaUploadConcurrency: raw.MediaUploadConcurrency,
		MaxUploadBytes:         raw.MaxUploadMB << 20,
		UploadTmpDir:           raw.UploadTmpDir,
		CloudinaryCloudName:    raw.CloudinaryCloudName,
		CloudinaryAPIKey:       raw.CloudinaryAPIKey,
		CloudinaryAPISecret:    raw.CloudinaryAPISecret,
		CloudinaryFolder:       raw.CloudinaryFolder,
		CloudinaryBaseURL:      strings.TrimRight(raw.CloudinaryBaseURL, "/"),
		LocalStoreDir:          raw.LocalStoreDir,
		LocalStoreBaseURL:      strings.TrimRight(raw.LocalStoreBaseURL, "/"),
		LogFile: utils.LogFileOptions{
			Path:       raw.LogFile,
			MaxSizeMB:  raw.LogMaxSizeMB,
			MaxBackups: raw.LogMaxBackups,
			MaxAgeDays: raw.LogMaxAgeDays,
		},
		LDFlag_SeedDbWithTestData:  raw.FlagSeedDbWithTestData,
		LDFlag_CORSHighSecurity:    raw.FlagCORSHighSecurity,
		LDFlag_NightlyResetEnabled: raw.FlagNightlyResetEnabled,
		LDFlag_UseCloudinary:       raw.FlagUseCloudinary,
		ldSDKKey:                   raw.LDSDKKey,
	}
	return cfg, nil
}

func (c *Config) loadLDFlags(sdkKey string) error {
	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		return fmt.Errorf("create LaunchDarkly client: %w", err)
	}
	defer ldClient.Close()
	if !ldClient.Initialized() {
		return errors.New("LaunchDarkly client failed to initialize")
	}

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)

	flags := []struct {
		key string
		dst *bool
	}{
		{"seed_db_with_test_data", &c.LDFlag_SeedDbWithTestData},
		{"cors_high_security", &c.LDFlag_CORSHighSecurity},
		{"nightly_reset_enabled", &c.LDFlag_NightlyResetEnabled},
		{"use_cloudinary", &c.LDFlag_UseCloudinary},
	}
	for _, f := range flags {
		v, err := ldClient.BoolVariation(f.key, ctx, *f.dst)
		if err != nil {
			return fmt.Errorf("retrieve %s flag: %w", f.key, err)
		}
		*f.dst = v
		utils.Logger.Debugf("%s flag: %t", f.key, v)
	}
	return nil
}

func cleanItems(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
