package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Storage
		OpenAI
		Generation
		Tasks
		Render
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	// Storage resolves which tiers are active once at startup. The remote
	// tier only exists when its credentials are configured.
	Storage struct {
		SamplesPath        string        // bundled sample catalog JSON
		TransientRetention time.Duration // how long terminal books stay in the memory tier
		PruneSchedule      string        // cron format, e.g. "*/10 * * * *"
		Remote             RemoteStore
	}
	RemoteStore struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}
	OpenAI struct {
		APIKey      string
		BaseURL     string // override for OpenAI-compatible providers
		TextModel   string
		ImageModel  string
		SpeechModel string
		Voice       string // default narrator voice
	}
	Generation struct {
		PageDelay    time.Duration // throttle between external calls
		DefaultPages int
		MaxPages     int
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Render struct {
		PDFServiceURL string // external headless-browser renderer; empty disables PDF export
	}
)

// Configured reports whether the remote document store should be built.
func (r RemoteStore) Configured() bool {
	return r.Endpoint != "" && r.AccessKey != "" && r.SecretKey != "" && r.Bucket != ""
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8388)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("samples_path", DefaultSamplesPath)
	v.SetDefault("transient_retention", "1h")
	v.SetDefault("prune_schedule", "*/10 * * * *")
	v.SetDefault("remote_store_endpoint", "")
	v.SetDefault("remote_store_access_key", "")
	v.SetDefault("remote_store_secret_key", "")
	v.SetDefault("remote_store_bucket", "")
	v.SetDefault("remote_store_use_ssl", true)

	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openai_text_model", "gpt-4o-mini")
	v.SetDefault("openai_image_model", "dall-e-3")
	v.SetDefault("openai_speech_model", "tts-1")
	v.SetDefault("openai_voice", "nova")

	v.SetDefault("generation_page_delay", "2s")
	v.SetDefault("generation_default_pages", 8)
	v.SetDefault("generation_max_pages", 12)

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_timeout", "10m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("pdf_service_url", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			SamplesPath:        v.GetString("SAMPLES_PATH"),
			TransientRetention: v.GetDuration("TRANSIENT_RETENTION"),
			PruneSchedule:      v.GetString("PRUNE_SCHEDULE"),
			Remote: RemoteStore{
				Endpoint:  v.GetString("REMOTE_STORE_ENDPOINT"),
				AccessKey: v.GetString("REMOTE_STORE_ACCESS_KEY"),
				SecretKey: v.GetString("REMOTE_STORE_SECRET_KEY"),
				Bucket:    v.GetString("REMOTE_STORE_BUCKET"),
				UseSSL:    v.GetBool("REMOTE_STORE_USE_SSL"),
			},
		},
		OpenAI: OpenAI{
			APIKey:      v.GetString("OPENAI_API_KEY"),
			BaseURL:     v.GetString("OPENAI_BASE_URL"),
			TextModel:   v.GetString("OPENAI_TEXT_MODEL"),
			ImageModel:  v.GetString("OPENAI_IMAGE_MODEL"),
			SpeechModel: v.GetString("OPENAI_SPEECH_MODEL"),
			Voice:       v.GetString("OPENAI_VOICE"),
		},
		Generation: Generation{
			PageDelay:    v.GetDuration("GENERATION_PAGE_DELAY"),
			DefaultPages: v.GetInt("GENERATION_DEFAULT_PAGES"),
			MaxPages:     v.GetInt("GENERATION_MAX_PAGES"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Render: Render{
			PDFServiceURL: v.GetString("PDF_SERVICE_URL"),
		},
	}
}
