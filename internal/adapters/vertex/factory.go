package vertex

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/utils"
	"go.uber.org/zap"
)

// Factory creates Vertex AI clients
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new Vertex AI factory
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClient creates a new Vertex AI client from configuration
func (f *Factory) CreateClient() (core.LLMClient, error) {
	vertexCfg := f.cfg.GetVertex()

	if vertexCfg.ProjectID == "" {
		return nil, fmt.Errorf("vertex.project_id is required")
	}

	client, err := genai.NewClient(context.Background(), vertexCfg.ProjectID, vertexCfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	return NewVertexClient(
		client,
		vertexCfg.ModelName,
		vertexCfg.MaxTokens,
		vertexCfg.Temperature,
		vertexCfg.TopP,
		vertexCfg.MaxBodySize,
		f.logger,
		f.textProcessor,
	), nil
}
