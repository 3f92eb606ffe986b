package mailbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"github.com/emersion/go-mbox"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/mailutil"
	"go.uber.org/zap"
)

// MboxSource reads messages from a local mbox archive, for one-off imports
// of an exported mailbox
type MboxSource struct {
	path   string
	logger *zap.Logger
}

// NewMboxSource creates an mbox file source
func NewMboxSource(path string, logger *zap.Logger) *MboxSource {
	return &MboxSource{
		path:   path,
		logger: logger,
	}
}

// Fetch reads at most max messages from the archive, in file order
func (s *MboxSource) Fetch(ctx context.Context, max int) ([]*core.EmailMessage, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mbox file: %w", err)
	}
	defer f.Close()

	reader := mbox.NewReader(f)

	var out []*core.EmailMessage
	for {
		if max > 0 && len(out) >= max {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read mbox message: %w", err)
		}

		msg, err := mail.ReadMessage(r)
		if err != nil {
			s.logger.Warn("Skipping unparseable mbox message", zap.Error(err))
			continue
		}

		body, err := mailutil.ExtractText(msg)
		if err != nil {
			s.logger.Warn("Skipping mbox message with unreadable body", zap.Error(err))
			continue
		}

		out = append(out, &core.EmailMessage{
			ID:      messageID(msg, body),
			From:    mailutil.DecodeHeader(msg.Header.Get("From")),
			Subject: mailutil.DecodeHeader(msg.Header.Get("Subject")),
			Body:    body,
			Date:    msg.Header.Get("Date"),
		})
	}

	return out, nil
}

// messageID prefers the Message-Id header, hashing the content when it is
// missing so the ID stays stable across imports
func messageID(msg *mail.Message, body string) string {
	if id := strings.Trim(msg.Header.Get("Message-Id"), "<> "); id != "" {
		return id
	}
	sum := sha256.Sum256([]byte(msg.Header.Get("Subject") + body))
	return "mbox-" + hex.EncodeToString(sum[:8])
}
