package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig
	Upload     UploadConfig

	// LLM Provider Abstraction
	LLM LLMConfig

	// Generation services
	Zhipu   ZhipuConfig
	TTS     TTSConfig
	Content ContentConfig

	// Retrieval
	Search    SearchConfig
	Retrieval RetrievalConfig
	Qdrant    QdrantConfig
	Voyage    VoyageConfig
	Knowledge KnowledgeConfig
	Neo4j     Neo4jConfig

	// Storage
	OSS     OSSConfig
	Redis   RedisConfig
	History HistoryConfig

	// Channels
	Telegram TelegramConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port     int
	Mode     string
	FilesDir string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RateLimitConfig struct {
	RequestsPerMin int
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"`

	// Sampling used for streamed chat answers
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// ZhipuConfig configures image generation, image description and video generation.
type ZhipuConfig struct {
	APIKey            string
	BaseURL           string
	ImageModel        string
	DescribeModel     string
	VideoModel        string
	VideoPollInterval time.Duration
	VideoTimeout      time.Duration
}

type TTSConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	OutputDir       string
	TranscribeModel string
}

type ContentConfig struct {
	OutputDir string
}

type SearchConfig struct {
	Engines            []string
	ResultsPerEngine   int
	PageTimeout        time.Duration
	UserAgent          string
	InsecureSkipVerify bool
	CacheDir           string
	CacheRetention     time.Duration
	BingURLs           []string
	BaiduURL           string
}

type RetrievalConfig struct {
	TopK         int
	ChunkTokens  int
	ChunkOverlap int
}

type QdrantConfig struct {
	URL            string
	CollectionName string
	VectorSize     int
}

type VoyageConfig struct {
	APIKey string
	Model  string
}

type KnowledgeConfig struct {
	SourceDir string
}

type Neo4jConfig struct {
	URI        string
	Username   string
	Password   string
	Database   string
	NodeLabels []string
	SearchKey  string
}

type OSSConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
	Prefix          string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type HistoryConfig struct {
	TTL      time.Duration
	MaxTurns int
}

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
	// NgrokAPI is the local ngrok API used to discover a public URL when
	// WebhookURL is empty.
	NgrokAPI string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/cyber-doctor/
func Load() (*Config, error) {
	// Local secrets live in .env during development; a missing file is fine.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/cyber-doctor/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.FilesDir = viper.GetString("http_server.files_dir")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")
	cfg.RateLimit.RequestsPerMin = viper.GetInt("rate_limit.requests_per_min")
	cfg.Upload.Dir = viper.GetString("upload.dir")
	cfg.Upload.MaxBytes = viper.GetInt64("upload.max_bytes")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")
	cfg.LLM.Temperature = viper.GetFloat64("llm.temperature")
	cfg.LLM.TopP = viper.GetFloat64("llm.top_p")
	cfg.LLM.MaxTokens = viper.GetInt("llm.max_tokens")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	// Zhipu (image, vision, video)
	cfg.Zhipu.APIKey = expandEnvVar(viper.GetString("zhipu.api_key"))
	if zhipuKey := viper.GetString("zhipu_api_key"); zhipuKey != "" {
		cfg.Zhipu.APIKey = zhipuKey
	}
	cfg.Zhipu.BaseURL = viper.GetString("zhipu.base_url")
	cfg.Zhipu.ImageModel = viper.GetString("zhipu.image_model")
	cfg.Zhipu.DescribeModel = viper.GetString("zhipu.describe_model")
	cfg.Zhipu.VideoModel = viper.GetString("zhipu.video_model")
	cfg.Zhipu.VideoPollInterval = viper.GetDuration("zhipu.video_poll_interval")
	cfg.Zhipu.VideoTimeout = viper.GetDuration("zhipu.video_timeout")

	// Text-to-speech
	cfg.TTS.BaseURL = viper.GetString("tts.base_url")
	cfg.TTS.APIKey = expandEnvVar(viper.GetString("tts.api_key"))
	cfg.TTS.Model = viper.GetString("tts.model")
	cfg.TTS.OutputDir = viper.GetString("tts.output_dir")
	cfg.TTS.TranscribeModel = viper.GetString("tts.transcribe_model")

	cfg.Content.OutputDir = viper.GetString("content.output_dir")

	// Internet search
	cfg.Search.Engines = getStringList("search.engines")
	cfg.Search.ResultsPerEngine = viper.GetInt("search.results_per_engine")
	cfg.Search.PageTimeout = viper.GetDuration("search.page_timeout")
	cfg.Search.UserAgent = viper.GetString("search.user_agent")
	cfg.Search.InsecureSkipVerify = viper.GetBool("search.insecure_skip_verify")
	cfg.Search.CacheDir = viper.GetString("search.cache_dir")
	cfg.Search.CacheRetention = viper.GetDuration("search.cache_retention")
	cfg.Search.BingURLs = getStringList("search.bing_urls")
	cfg.Search.BaiduURL = viper.GetString("search.baidu_url")

	cfg.Retrieval.TopK = viper.GetInt("retrieval.top_k")
	cfg.Retrieval.ChunkTokens = viper.GetInt("retrieval.chunk_tokens")
	cfg.Retrieval.ChunkOverlap = viper.GetInt("retrieval.chunk_overlap")

	// Knowledge base
	cfg.Qdrant.URL = viper.GetString("qdrant.url")
	cfg.Qdrant.CollectionName = viper.GetString("qdrant.collection_name")
	cfg.Qdrant.VectorSize = viper.GetInt("qdrant.vector_size")
	if qdrantURL := viper.GetString("qdrant_url"); qdrantURL != "" {
		cfg.Qdrant.URL = qdrantURL
	}

	cfg.Voyage.APIKey = viper.GetString("voyage.api_key")
	if voyageKey := viper.GetString("voyage_api_key"); voyageKey != "" {
		cfg.Voyage.APIKey = voyageKey
	}
	cfg.Voyage.Model = viper.GetString("voyage.model")

	cfg.Knowledge.SourceDir = viper.GetString("knowledge.source_dir")

	// Knowledge graph
	cfg.Neo4j.URI = viper.GetString("neo4j.uri")
	cfg.Neo4j.Username = viper.GetString("neo4j.username")
	cfg.Neo4j.Password = expandEnvVar(viper.GetString("neo4j.password"))
	if neo4jPassword := viper.GetString("neo4j_password"); neo4jPassword != "" {
		cfg.Neo4j.Password = neo4jPassword
	}
	cfg.Neo4j.Database = viper.GetString("neo4j.database")
	cfg.Neo4j.NodeLabels = getStringList("neo4j.node_labels")
	cfg.Neo4j.SearchKey = viper.GetString("neo4j.search_key")

	// Object storage
	cfg.OSS.Endpoint = viper.GetString("oss.endpoint")
	cfg.OSS.Region = viper.GetString("oss.region")
	cfg.OSS.Bucket = viper.GetString("oss.bucket")
	cfg.OSS.AccessKeyID = expandEnvVar(viper.GetString("oss.access_key_id"))
	cfg.OSS.AccessKeySecret = expandEnvVar(viper.GetString("oss.access_key_secret"))
	cfg.OSS.Prefix = viper.GetString("oss.prefix")

	// Conversation history
	cfg.Redis.Address = viper.GetString("redis.address")
	cfg.Redis.Password = expandEnvVar(viper.GetString("redis.password"))
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.History.TTL = viper.GetDuration("history.ttl")
	cfg.History.MaxTurns = viper.GetInt("history.max_turns")

	cfg.Telegram.BotToken = viper.GetString("telegram.bot_token")
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.NgrokAPI = viper.GetString("telegram.ngrok_api")
	if tgToken := viper.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}

	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}
	if err := validateSearchConfig(&cfg.Search); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.files_dir", "data")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("rate_limit.requests_per_min", 60)
	viper.SetDefault("upload.dir", "data/uploads")
	viper.SetDefault("upload.max_bytes", 20<<20)

	// LLM defaults
	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "60s")
	viper.SetDefault("llm.temperature", 0.95)
	viper.SetDefault("llm.top_p", 0.7)
	viper.SetDefault("llm.max_tokens", 1024)

	viper.SetDefault("zhipu.base_url", "https://open.bigmodel.cn/api/paas/v4")
	viper.SetDefault("zhipu.image_model", "cogview-3-plus")
	viper.SetDefault("zhipu.describe_model", "glm-4v-plus")
	viper.SetDefault("zhipu.video_model", "cogvideox")
	viper.SetDefault("zhipu.video_poll_interval", "2s")
	viper.SetDefault("zhipu.video_timeout", "120s")

	viper.SetDefault("tts.model", "tts-1")
	viper.SetDefault("tts.output_dir", "data/audio")
	viper.SetDefault("tts.transcribe_model", "whisper-1")
	viper.SetDefault("content.output_dir", "data/documents")

	viper.SetDefault("search.engines", []string{"bing", "baidu"})
	viper.SetDefault("search.results_per_engine", 3)
	viper.SetDefault("search.page_timeout", "10s")
	viper.SetDefault("search.user_agent", "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:22.0) Gecko/20100101 Firefox/22.0")
	viper.SetDefault("search.insecure_skip_verify", true)
	viper.SetDefault("search.cache_dir", "data/search")
	viper.SetDefault("search.cache_retention", "10m")
	viper.SetDefault("search.bing_urls", []string{"https://cn.bing.com/search?q=", "https://www.bing.com/search?q="})
	viper.SetDefault("search.baidu_url", "https://www.baidu.com/s?wd=")

	viper.SetDefault("retrieval.top_k", 6)
	viper.SetDefault("retrieval.chunk_tokens", 2000)
	viper.SetDefault("retrieval.chunk_overlap", 100)

	viper.SetDefault("qdrant.collection_name", "knowledge")
	viper.SetDefault("qdrant.vector_size", 1024)
	viper.SetDefault("voyage.model", "voyage-3")
	viper.SetDefault("knowledge.source_dir", "data/knowledge")

	viper.SetDefault("neo4j.database", "neo4j")
	viper.SetDefault("neo4j.node_labels", []string{"Disease", "Symptom", "Drug", "Check", "Food", "Department"})
	viper.SetDefault("neo4j.search_key", "名称")

	viper.SetDefault("oss.region", "oss-cn-beijing")
	viper.SetDefault("oss.prefix", "cyber-doctor/")

	viper.SetDefault("redis.db", 0)
	viper.SetDefault("history.ttl", "24h")
	viper.SetDefault("history.max_turns", 20)
}

// getStringList accepts both YAML lists and comma separated env values.
func getStringList(key string) []string {
	raw := viper.GetStringSlice(key)
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envValue := viper.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
		return ""
	}

	return value
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)

	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if provider.Model == "" {
			return fmt.Errorf("provider %s: model is required", provider.Name)
		}

		if provider.Enabled {
			enabledCount++

			if provider.Priority <= 0 {
				return fmt.Errorf("provider %s: priority must be positive", provider.Name)
			}

			if priorityMap[provider.Priority] {
				return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
			}
			priorityMap[provider.Priority] = true
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// validateSearchConfig validates the search fan-out caps
func validateSearchConfig(cfg *SearchConfig) error {
	if len(cfg.Engines) == 0 {
		return fmt.Errorf("search: at least one engine is required")
	}
	for _, e := range cfg.Engines {
		if e != "bing" && e != "baidu" {
			return fmt.Errorf("search: unknown engine %q", e)
		}
	}
	if cfg.ResultsPerEngine <= 0 {
		return fmt.Errorf("search: results_per_engine must be positive")
	}
	if cfg.PageTimeout <= 0 {
		return fmt.Errorf("search: page_timeout must be positive")
	}
	return nil
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		if i, ok := val.(int); ok {
			return i
		}
		// Handle float64 from JSON unmarshaling
		if f, ok := val.(float64); ok {
			return int(f)
		}
	}
	return 0
}
