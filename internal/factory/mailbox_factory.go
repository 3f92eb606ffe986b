package factory

import (
	"fmt"
	"time"

	"github.com/jobtrawl/jobtrawl/internal/adapters/mailbox"
	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"go.uber.org/zap"
)

// MailboxFactory creates mailbox sources based on configuration
type MailboxFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailboxFactory creates a new mailbox factory
func NewMailboxFactory(cfg *config.Config, logger *zap.Logger) *MailboxFactory {
	return &MailboxFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailboxSource creates a mailbox source based on the configuration.
// Type "none" yields nil, for deployments fed exclusively by SMTP ingest.
func (f *MailboxFactory) CreateMailboxSource() (core.MailboxSource, error) {
	mailboxCfg := f.cfg.GetMailbox()

	switch mailboxCfg.Type {
	case "imap":
		if mailboxCfg.Host == "" {
			return nil, fmt.Errorf("mailbox.host is required for the imap source")
		}
		lookback, err := time.ParseDuration(mailboxCfg.Lookback)
		if err != nil {
			return nil, fmt.Errorf("invalid mailbox lookback: %w", err)
		}
		return mailbox.NewIMAPSource(
			mailboxCfg.Host,
			mailboxCfg.Username,
			mailboxCfg.Password,
			mailboxCfg.Folder,
			mailboxCfg.UseTLS,
			lookback,
			f.logger,
		), nil
	case "mbox":
		if mailboxCfg.MboxPath == "" {
			return nil, fmt.Errorf("mailbox.mbox_path is required for the mbox source")
		}
		return mailbox.NewMboxSource(mailboxCfg.MboxPath, f.logger), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported mailbox type: %s", mailboxCfg.Type)
	}
}
