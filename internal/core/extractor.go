package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
)

// DefaultFingerprintLength is how many leading characters of subject+body
// feed the cache key
const DefaultFingerprintLength = 200

// Fingerprint derives a fixed-length cache key from the first prefixLen
// characters of subject+body
func Fingerprint(subject, body string, prefixLen int) string {
	if prefixLen <= 0 {
		prefixLen = DefaultFingerprintLength
	}
	text := subject + body
	if len(text) > prefixLen {
		text = text[:prefixLen]
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Extractor wraps the extraction oracle with a cache check and response
// validation. It never returns an error: oracle unavailability, malformed
// responses, and schema violations all collapse to nil, meaning "could not
// extract, treat as not-a-job-email for this run". Retries are a caller
// policy.
type Extractor struct {
	llm          LLMClient
	cache        ExtractionCache
	cacheEnabled bool
	prefixLen    int
	logger       *zap.Logger
}

// NewExtractor creates an extractor. llm may be nil, which puts the
// extractor in an explicit degraded mode where every call yields nil.
func NewExtractor(llm LLMClient, cache ExtractionCache, cacheEnabled bool, prefixLen int, logger *zap.Logger) *Extractor {
	return &Extractor{
		llm:          llm,
		cache:        cache,
		cacheEnabled: cacheEnabled && cache != nil,
		prefixLen:    prefixLen,
		logger:       logger,
	}
}

// Extract classifies a message and extracts application fields. A nil
// return means no usable extraction for this run.
func (e *Extractor) Extract(ctx context.Context, msg *EmailMessage) *ExtractionResult {
	if e.llm == nil {
		return nil
	}

	key := Fingerprint(msg.Subject, msg.Body, e.prefixLen)
	if e.cacheEnabled {
		if cached, ok := e.cache.Get(ctx, key); ok {
			e.logger.Debug("Extraction cache hit", zap.String("email_id", msg.ID))
			return cached
		}
	}

	result, err := e.llm.ExtractJobDetails(ctx, msg)
	if err != nil {
		e.logger.Warn("Oracle extraction failed",
			zap.String("email_id", msg.ID),
			zap.Error(err))
		return nil
	}

	if !validateExtraction(result) {
		e.logger.Warn("Oracle response failed validation",
			zap.String("email_id", msg.ID))
		return nil
	}

	// Only validated results are cached; a transient failure must not
	// poison the cache.
	if e.cacheEnabled {
		e.cache.Put(ctx, key, result)
	}

	return result
}

// ClearCache drops all memoized extractions
func (e *Extractor) ClearCache(ctx context.Context) error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Clear(ctx)
}

// validateExtraction checks the oracle output shape. A result failing
// validation is treated identically to "oracle unavailable", never
// partially trusted.
func validateExtraction(result *ExtractionResult) bool {
	if result == nil {
		return false
	}
	if !result.IsJobEmail {
		return true
	}
	if strings.TrimSpace(result.Company) == "" {
		return false
	}
	if strings.TrimSpace(result.JobTitle) == "" {
		return false
	}
	if !ValidStatus(result.Status) {
		return false
	}
	if strings.TrimSpace(result.Location) == "" {
		return false
	}
	return true
}
