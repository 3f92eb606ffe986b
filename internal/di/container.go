package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/factory"
	"github.com/jobtrawl/jobtrawl/internal/logging"
	"github.com/jobtrawl/jobtrawl/internal/senders"
	"github.com/jobtrawl/jobtrawl/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewRepositoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailboxFactory); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return nil, err
	}

	// Register extraction cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ExtractionCache, error) {
		return f.CreateExtractionCache()
	}); err != nil {
		return nil, err
	}

	// Register application repository
	if err := container.Provide(func(f *factory.RepositoryFactory) (core.ApplicationRepository, error) {
		return f.CreateApplicationRepository()
	}); err != nil {
		return nil, err
	}

	// Register mailbox source
	if err := container.Provide(func(f *factory.MailboxFactory) (core.MailboxSource, error) {
		return f.CreateMailboxSource()
	}); err != nil {
		return nil, err
	}

	// Register keyword gate
	if err := container.Provide(func(cfg *config.Config) *core.KeywordGate {
		gateCfg := cfg.GetGate()
		return core.NewKeywordGate(gateCfg.JobKeywords, gateCfg.SpamKeywords)
	}); err != nil {
		return nil, err
	}

	// Register trusted sender checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.TrustedSenders {
		gateCfg := cfg.GetGate()
		if len(gateCfg.BypassDomains) > 0 {
			logger.Info("Loaded gate bypass domains", zap.Strings("domains", gateCfg.BypassDomains))
		}
		return senders.NewChecker(gateCfg.BypassDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register confidence scorer
	if err := container.Provide(func(cfg *config.Config) *core.ConfidenceScorer {
		scoreCfg := cfg.GetScore()
		return core.NewConfidenceScorer(core.ScoreWeights{
			OracleBase:   scoreCfg.OracleBase,
			FallbackBase: scoreCfg.FallbackBase,
			CompanyBonus: scoreCfg.CompanyBonus,
			RoleBonus:    scoreCfg.RoleBonus,
			StatusBonus:  scoreCfg.StatusBonus,
		})
	}); err != nil {
		return nil, err
	}

	// Register extractor
	if err := container.Provide(func(
		llm core.LLMClient,
		cache core.ExtractionCache,
		f *factory.CacheFactory,
		logger *zap.Logger,
	) *core.Extractor {
		return core.NewExtractor(llm, cache, f.IsCacheEnabled(), f.KeyPrefixLength(), logger)
	}); err != nil {
		return nil, err
	}

	// Register mapper
	if err := container.Provide(func(
		gate *core.KeywordGate,
		extractor *core.Extractor,
		scorer *core.ConfidenceScorer,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.EmailToApplicationMapper {
		return core.NewEmailToApplicationMapper(gate, extractor, scorer, cfg.GetBool("extractor.keyword_fallback"), logger)
	}); err != nil {
		return nil, err
	}

	// Register duplicate detector
	if err := container.Provide(core.NewDuplicateDetector); err != nil {
		return nil, err
	}

	// Register tracker service
	if err := container.Provide(func(
		mailbox core.MailboxSource,
		mapper *core.EmailToApplicationMapper,
		detector *core.DuplicateDetector,
		repo core.ApplicationRepository,
		trusted core.TrustedSenders,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.TrackerService {
		return core.NewTrackerService(
			mailbox,
			mapper,
			detector,
			repo,
			trusted,
			logger,
			cfg.GetString("sync.user_id"),
			cfg.GetInt("sync.batch_size"),
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
