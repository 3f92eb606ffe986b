package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jobtrawl/jobtrawl/internal/adapters/cache"
	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/factory"
	"github.com/jobtrawl/jobtrawl/internal/logging"
	"github.com/jobtrawl/jobtrawl/internal/mailutil"
	"github.com/jobtrawl/jobtrawl/internal/utils"
)

var (
	// LLM provider flags
	provider    = flag.String("provider", "openai", "LLM provider (openai, gemini, bedrock, vertex, none)")
	maxTokens   = flag.Int("max-tokens", 500, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")
	maxBodySize = flag.Int("max-body-size", 2000, "Maximum email body size to send to LLM")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4o-mini", "OpenAI model name")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Vertex AI flags
	vertexProjectID = flag.String("vertex-project", "", "GCP project ID for Vertex AI")
	vertexLocation  = flag.String("vertex-location", "us-central1", "GCP location for Vertex AI")
	vertexModelName = flag.String("vertex-model", "gemini-1.5-flash", "Vertex AI model name")

	// Pipeline flags
	keywordFallback = flag.Bool("keyword-fallback", false, "Classify from keywords when the LLM yields nothing")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	_ = godotenv.Load()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Initialize LLM client
	textProcessor := utils.NewTextProcessor(logger)
	llmFactory := factory.NewLLMFactory(cfg, logger, textProcessor)
	llmClient, err := llmFactory.CreateLLMClient()
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Assemble the pipeline
	gateCfg := cfg.GetGate()
	gate := core.NewKeywordGate(gateCfg.JobKeywords, gateCfg.SpamKeywords)
	memCache := cache.NewMemoryCache(cfg.GetInt("cache.max_entries"), logger)
	extractor := core.NewExtractor(llmClient, memCache, true, cfg.GetInt("cache.key_prefix_length"), logger)
	scoreCfg := cfg.GetScore()
	scorer := core.NewConfidenceScorer(core.ScoreWeights{
		OracleBase:   scoreCfg.OracleBase,
		FallbackBase: scoreCfg.FallbackBase,
		CompanyBonus: scoreCfg.CompanyBonus,
		RoleBonus:    scoreCfg.RoleBonus,
		StatusBonus:  scoreCfg.StatusBonus,
	})
	mapper := core.NewEmailToApplicationMapper(gate, extractor, scorer, cfg.GetBool("extractor.keyword_fallback"), logger)

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	body, err := mailutil.ExtractText(msg)
	if err != nil {
		logger.Fatal("Failed to extract email body", zap.Error(err))
	}

	email := &core.EmailMessage{
		ID:      msg.Header.Get("Message-Id"),
		From:    mailutil.DecodeHeader(msg.Header.Get("From")),
		Subject: mailutil.DecodeHeader(msg.Header.Get("Subject")),
		Body:    body,
		Date:    msg.Header.Get("Date"),
	}
	if email.ID == "" {
		email.ID = "cli-" + core.Fingerprint(email.Subject, email.Body, 0)
	}

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", email.From)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))
	fmt.Printf("\n")

	fmt.Printf("=== Extraction ===\n")
	fmt.Printf("Provider: %s\n", cfg.GetString("llm.provider"))

	startTime := time.Now()
	app := mapper.Parse(context.Background(), email)
	duration := time.Since(startTime)

	fmt.Printf("Processing time: %v\n", duration)
	fmt.Printf("\n=== Result ===\n")

	if app == nil {
		fmt.Printf("Not a job application email\n")
	} else {
		out, err := json.MarshalIndent(app, "", "  ")
		if err != nil {
			logger.Fatal("Failed to encode application", zap.Error(err))
		}
		fmt.Println(string(out))
	}

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set LLM provider
	v.Set("llm.provider", *provider)

	// Set provider-specific configuration
	switch *provider {
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_body_size", *maxBodySize)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_body_size", *maxBodySize)
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_body_size", *maxBodySize)
	case "vertex":
		v.Set("vertex.project_id", *vertexProjectID)
		v.Set("vertex.location", *vertexLocation)
		v.Set("vertex.model_name", *vertexModelName)
		v.Set("vertex.max_tokens", *maxTokens)
		v.Set("vertex.temperature", *temperature)
		v.Set("vertex.top_p", *topP)
		v.Set("vertex.max_body_size", *maxBodySize)
	}

	v.Set("extractor.keyword_fallback", *keywordFallback)

	return config.NewFromViper(v)
}
