package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"cyber-doctor/config"
	_ "cyber-doctor/docs" // Swagger docs
	"cyber-doctor/internal/answer"
	chatHTTP "cyber-doctor/internal/chat/delivery/http"
	chatTelegram "cyber-doctor/internal/chat/delivery/telegram"
	chatUC "cyber-doctor/internal/chat/usecase"
	"cyber-doctor/internal/content/render"
	contentUC "cyber-doctor/internal/content/usecase"
	graphRepo "cyber-doctor/internal/graph/repository"
	graphNeo4j "cyber-doctor/internal/graph/repository/neo4j"
	graphUC "cyber-doctor/internal/graph/usecase"
	"cyber-doctor/internal/history"
	historyMemory "cyber-doctor/internal/history/repository/memory"
	historyRedis "cyber-doctor/internal/history/repository/redis"
	"cyber-doctor/internal/httpserver"
	"cyber-doctor/internal/intent"
	knowledgeQdrant "cyber-doctor/internal/knowledge/repository/qdrant"
	knowledgeUC "cyber-doctor/internal/knowledge/usecase"
	"cyber-doctor/internal/llm"
	mediaUC "cyber-doctor/internal/media/usecase"
	searchEngine "cyber-doctor/internal/search/engine"
	searchRetriever "cyber-doctor/internal/search/retriever"
	toolUC "cyber-doctor/internal/tool/usecase"
	"cyber-doctor/pkg/chunker"
	"cyber-doctor/pkg/llmprovider"
	"cyber-doctor/pkg/log"
	"cyber-doctor/pkg/oss"
	"cyber-doctor/pkg/qdrant"
	"cyber-doctor/pkg/telegram"
	"cyber-doctor/pkg/tts"
	"cyber-doctor/pkg/voyage"
	"cyber-doctor/pkg/zhipu"
)

// memorySessions caps the in-process history store.
const memorySessions = 10000

// @title       Cyber Doctor API
// @description Medical assistant chat: intent routing, RAG, knowledge graph, web search and media generation.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Cyber Doctor...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Server stopped with error: ", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	readyChecks := map[string]httpserver.ReadyCheck{}

	// 3. LLM
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("llm providers: %w", err)
	}
	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, time.Minute),
	}, logger)
	llmClient := llm.New(manager, llm.Sampling{
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, logger)
	logger.Infof(ctx, "LLM ready with %d provider(s)", len(providers))

	// 4. Retrieval
	chunks, err := chunker.New(cfg.Retrieval.ChunkTokens, cfg.Retrieval.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("chunker: %w", err)
	}
	voyageClient, err := voyage.New(cfg.Voyage.APIKey)
	if err != nil {
		return fmt.Errorf("voyage: %w", err)
	}
	voyageClient.WithModel(cfg.Voyage.Model)

	retriever := searchRetriever.New(chunks, voyageClient, cfg.Retrieval.TopK, logger)
	engine, err := searchEngine.New(searchEngine.Config{
		Engines:            cfg.Search.Engines,
		ResultsPerEngine:   cfg.Search.ResultsPerEngine,
		PageTimeout:        cfg.Search.PageTimeout,
		UserAgent:          cfg.Search.UserAgent,
		InsecureSkipVerify: cfg.Search.InsecureSkipVerify,
		CacheDir:           cfg.Search.CacheDir,
		CacheRetention:     cfg.Search.CacheRetention,
		BingURLs:           cfg.Search.BingURLs,
		BaiduURL:           cfg.Search.BaiduURL,
	}, llmClient, retriever, logger)
	if err != nil {
		return fmt.Errorf("search engine: %w", err)
	}

	qdrantClient := qdrant.NewClient(cfg.Qdrant.URL)
	knowledgeRepo := knowledgeQdrant.New(qdrantClient, voyageClient, cfg.Qdrant.CollectionName, cfg.Qdrant.VectorSize, logger)
	knowledge := knowledgeUC.New(logger, knowledgeRepo, chunks)

	// 5. Knowledge graph (optional)
	var graphRepository graphRepo.GraphRepository
	driver, err := graphNeo4j.Connect(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password)
	if err != nil {
		logger.Warnf(ctx, "Knowledge graph disabled: %v", err)
	} else {
		defer driver.Close(context.WithoutCancel(ctx))
		graphRepository = graphNeo4j.New(driver, cfg.Neo4j.Database, cfg.Neo4j.SearchKey, logger)
		readyChecks["neo4j"] = driver.VerifyConnectivity
	}
	graphs := graphUC.New(logger, graphRepository, cfg.Neo4j.NodeLabels)
	if err := graphs.Refresh(ctx); err != nil {
		logger.Warnf(ctx, "Knowledge graph refresh failed: %v", err)
	}

	// 6. Generation
	zp, err := zhipu.New(zhipu.Config{
		APIKey:        cfg.Zhipu.APIKey,
		BaseURL:       cfg.Zhipu.BaseURL,
		ImageModel:    cfg.Zhipu.ImageModel,
		DescribeModel: cfg.Zhipu.DescribeModel,
		VideoModel:    cfg.Zhipu.VideoModel,
	})
	if err != nil {
		return fmt.Errorf("zhipu: %w", err)
	}
	ttsCfg := tts.Config{
		BaseURL:         cfg.TTS.BaseURL,
		APIKey:          cfg.TTS.APIKey,
		Model:           cfg.TTS.Model,
		OutputDir:       cfg.TTS.OutputDir,
		TranscribeModel: cfg.TTS.TranscribeModel,
	}
	synth, err := tts.New(ttsCfg)
	if err != nil {
		return fmt.Errorf("tts: %w", err)
	}
	transcriber, err := tts.NewTranscriber(ttsCfg)
	if err != nil {
		return fmt.Errorf("tts transcriber: %w", err)
	}

	var uploader oss.IUploader
	if cfg.OSS.Bucket != "" && cfg.OSS.AccessKeyID != "" {
		uploader, err = oss.New(oss.Config{
			Endpoint:        cfg.OSS.Endpoint,
			Region:          cfg.OSS.Region,
			Bucket:          cfg.OSS.Bucket,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			Prefix:          cfg.OSS.Prefix,
		})
		if err != nil {
			logger.Warnf(ctx, "OSS upload disabled: %v", err)
			uploader = nil
		}
	} else {
		logger.Info(ctx, "OSS not configured, images are sent inline")
	}

	media := mediaUC.New(logger, llmClient, zp, synth, uploader, mediaUC.Options{
		PollInterval: cfg.Zhipu.VideoPollInterval,
		VideoTimeout: cfg.Zhipu.VideoTimeout,
		UploadDir:    cfg.Upload.Dir,
	})

	renderer, err := render.New(cfg.Content.OutputDir)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	content, err := contentUC.New(logger, llmClient, renderer)
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}

	// 7. Chat pipeline
	dispatcher := toolUC.New(logger, toolUC.Deps{
		LLM:       llmClient,
		Knowledge: knowledge,
		Graph:     graphs,
		Media:     media,
		Content:   content,
		Search:    engine,
		RAGTopK:   cfg.Retrieval.TopK,
	})
	assembler := answer.New(dispatcher, logger)
	classifier := intent.New(llmClient, logger)

	historyRepo, closeHistory := newHistory(ctx, cfg, logger, readyChecks)
	defer closeHistory()

	chat := chatUC.New(logger, classifier, assembler, historyRepo, transcriber, cfg.History.MaxTurns)

	// 8. Delivery
	chatHandler := chatHTTP.New(logger, chat, chatHTTP.Config{
		UploadDir: cfg.Upload.Dir,
		MaxBytes:  cfg.Upload.MaxBytes,
		FilesDir:  cfg.HTTPServer.FilesDir,
	})

	var telegramHandler chatTelegram.Handler
	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = chatTelegram.New(logger, chat, bot)
		go registerWebhook(ctx, cfg.Telegram, bot, logger)
	} else {
		logger.Info(ctx, "Telegram skipped: TELEGRAM_BOT_TOKEN is missing")
	}

	// 9. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		FilesDir:        cfg.HTTPServer.FilesDir,
		RequestsPerMin:  cfg.RateLimit.RequestsPerMin,
		ChatHandler:     chatHandler,
		TelegramHandler: telegramHandler,
		ReadyChecks:     readyChecks,
	})
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	return httpServer.Run(ctx)
}

// newHistory prefers Redis and falls back to an in-process store.
func newHistory(ctx context.Context, cfg *config.Config, logger log.Logger, readyChecks map[string]httpserver.ReadyCheck) (history.Repository, func()) {
	if cfg.Redis.Address != "" {
		rdb, err := historyRedis.Connect(ctx, historyRedis.Options{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			readyChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			logger.Infof(ctx, "History stored in Redis at %s", cfg.Redis.Address)
			return historyRedis.New(rdb, cfg.History.MaxTurns, cfg.History.TTL, logger), closeRedis(rdb)
		}
		logger.Warnf(ctx, "Redis unavailable, keeping history in memory: %v", err)
	}
	return historyMemory.New(memorySessions, cfg.History.MaxTurns, cfg.History.TTL), func() {}
}

func closeRedis(rdb *goredis.Client) func() {
	return func() { _ = rdb.Close() }
}

// registerWebhook points Telegram at this server, discovering an ngrok tunnel
// when no URL is configured.
func registerWebhook(ctx context.Context, cfg config.TelegramConfig, bot *telegram.Bot, logger log.Logger) {
	webhookURL := cfg.WebhookURL
	if webhookURL == "" && cfg.NgrokAPI != "" {
		publicURL, err := detectNgrokURL(ctx, cfg.NgrokAPI)
		if err != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
			return
		}
		webhookURL = publicURL + "/webhook/telegram"
		logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}
	if webhookURL == "" {
		logger.Warn(ctx, "Telegram webhook URL not configured")
		return
	}

	if err := bot.SetWebhook(webhookURL); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
