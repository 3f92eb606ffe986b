package factory

import (
	"fmt"

	"github.com/jobtrawl/jobtrawl/internal/adapters/bedrock"
	"github.com/jobtrawl/jobtrawl/internal/adapters/gemini"
	"github.com/jobtrawl/jobtrawl/internal/adapters/openai"
	"github.com/jobtrawl/jobtrawl/internal/adapters/vertex"
	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates extraction oracle clients
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateLLMClient creates an oracle client based on the configuration.
// Provider "none" yields a nil client, which runs the pipeline in its
// degraded no-oracle mode.
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig := f.cfg.GetLLM()

	switch llmConfig.Provider {
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger)
		return factory.CreateClient()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger)
		return factory.CreateClient()
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClient()
	case "vertex":
		factory := vertex.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClient()
	case "none", "":
		f.logger.Warn("No LLM provider configured, extraction runs degraded")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
}
