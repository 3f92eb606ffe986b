package config

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// VertexConfig represents the configuration for Vertex AI
type VertexConfig struct {
	ProjectID   string
	Location    string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GateConfig represents the keyword gate configuration
type GateConfig struct {
	JobKeywords   []string
	SpamKeywords  []string
	BypassDomains []string
}

// ScoreConfig represents the confidence score weights
type ScoreConfig struct {
	OracleBase   int
	FallbackBase int
	CompanyBonus int
	RoleBonus    int
	StatusBonus  int
}

// MailboxConfig represents the mailbox source configuration
type MailboxConfig struct {
	Type     string
	Host     string
	Username string
	Password string
	Folder   string
	UseTLS   bool
	Lookback string
	MboxPath string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetVertex returns the Vertex AI configuration
func (c *Config) GetVertex() VertexConfig {
	return VertexConfig{
		ProjectID:   c.GetString("vertex.project_id"),
		Location:    c.GetString("vertex.location"),
		ModelName:   c.GetString("vertex.model_name"),
		MaxTokens:   c.GetInt("vertex.max_tokens"),
		Temperature: float32(c.GetFloat64("vertex.temperature")),
		TopP:        float32(c.GetFloat64("vertex.top_p")),
		MaxBodySize: c.GetInt("vertex.max_body_size"),
	}
}

// GetGate returns the keyword gate configuration
func (c *Config) GetGate() GateConfig {
	return GateConfig{
		JobKeywords:   c.GetStringSlice("gate.job_keywords"),
		SpamKeywords:  c.GetStringSlice("gate.spam_keywords"),
		BypassDomains: c.GetStringSlice("gate.bypass_domains"),
	}
}

// GetScore returns the confidence score weights
func (c *Config) GetScore() ScoreConfig {
	return ScoreConfig{
		OracleBase:   c.GetInt("score.oracle_base"),
		FallbackBase: c.GetInt("score.fallback_base"),
		CompanyBonus: c.GetInt("score.company_bonus"),
		RoleBonus:    c.GetInt("score.role_bonus"),
		StatusBonus:  c.GetInt("score.status_bonus"),
	}
}

// GetMailbox returns the mailbox source configuration
func (c *Config) GetMailbox() MailboxConfig {
	return MailboxConfig{
		Type:     c.GetString("mailbox.type"),
		Host:     c.GetString("mailbox.host"),
		Username: c.GetString("mailbox.username"),
		Password: c.GetString("mailbox.password"),
		Folder:   c.GetString("mailbox.folder"),
		UseTLS:   c.GetBool("mailbox.use_tls"),
		Lookback: c.GetString("mailbox.lookback"),
		MboxPath: c.GetString("mailbox.mbox_path"),
	}
}
