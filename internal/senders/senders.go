package senders

import (
	"strings"

	"go.uber.org/zap"
)

// DefaultATSDomains are applicant tracking systems whose mail is
// near-certain to be job-related, so it skips the keyword gate
var DefaultATSDomains = []string{
	"greenhouse.io",
	"greenhouse-mail.io",
	"lever.co",
	"hire.lever.co",
	"ashbyhq.com",
	"myworkday.com",
	"icims.com",
	"smartrecruiters.com",
	"jobvite.com",
	"bamboohr.com",
	"successfactors.com",
}

// Checker decides whether a sender address belongs to a trusted
// job-related domain
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a checker. An empty domain list falls back to the
// default ATS domains; pass a list with a single empty entry to disable.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	if len(domains) == 0 {
		domains = DefaultATSDomains
	}

	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain != "" {
			normalized = append(normalized, domain)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized trusted sender checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: normalized,
		logger:  logger,
	}
}

// IsTrusted checks if the sender's domain is a known job-related domain.
// Subdomains of a trusted domain are trusted too.
func (c *Checker) IsTrusted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	// Extract domain from the sender header, tolerating display names
	from = strings.ToLower(strings.TrimSpace(from))
	at := strings.LastIndex(from, "@")
	if at < 0 || at == len(from)-1 {
		return false
	}
	domain := strings.Trim(from[at+1:], "<> ")

	for _, trusted := range c.domains {
		if domain == trusted || strings.HasSuffix(domain, "."+trusted) {
			if c.logger != nil {
				c.logger.Debug("Sender domain is trusted",
					zap.String("domain", domain),
					zap.String("from", from))
			}
			return true
		}
	}

	return false
}
