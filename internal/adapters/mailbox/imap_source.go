package mailbox

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	// registers decoders for non-UTF-8 charsets (ISO-8859-1, windows-1252)
	_ "github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"go.uber.org/zap"
)

// IMAPSource fetches messages from an IMAP folder and normalizes them for
// the pipeline. A fresh connection is dialed per fetch so a periodic sync
// never holds a long-lived session.
type IMAPSource struct {
	address  string
	username string
	password string
	folder   string
	useTLS   bool
	lookback time.Duration
	logger   *zap.Logger
}

// NewIMAPSource creates an IMAP mailbox source. lookback bounds how far
// back in time messages are fetched.
func NewIMAPSource(address, username, password, folder string, useTLS bool, lookback time.Duration, logger *zap.Logger) *IMAPSource {
	if folder == "" {
		folder = "INBOX"
	}
	return &IMAPSource{
		address:  address,
		username: username,
		password: password,
		folder:   folder,
		useTLS:   useTLS,
		lookback: lookback,
		logger:   logger,
	}
}

// Fetch returns at most max messages received within the lookback window
func (s *IMAPSource) Fetch(ctx context.Context, max int) ([]*core.EmailMessage, error) {
	c, err := s.dial()
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	if err := c.Login(s.username, s.password); err != nil {
		return nil, fmt.Errorf("imap login failed: %w", err)
	}

	if _, err := c.Select(s.folder, true); err != nil {
		return nil, fmt.Errorf("failed to select folder %q: %w", s.folder, err)
	}

	criteria := imap.NewSearchCriteria()
	if s.lookback > 0 {
		criteria.Since = time.Now().Add(-s.lookback)
	}
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if max > 0 && len(ids) > max {
		// Keep the most recent ones
		ids = ids[len(ids)-max:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, section.FetchItem()}

	messages := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var out []*core.EmailMessage
	for msg := range messages {
		normalized, err := s.normalize(msg, section)
		if err != nil {
			s.logger.Warn("Skipping unreadable message", zap.Error(err))
			continue
		}
		out = append(out, normalized)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch failed: %w", err)
	}

	return out, nil
}

func (s *IMAPSource) dial() (*client.Client, error) {
	if s.useTLS {
		c, err := client.DialTLS(s.address, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to dial %s: %w", s.address, err)
		}
		return c, nil
	}
	c, err := client.Dial(s.address)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", s.address, err)
	}
	return c, nil
}

// normalize turns a fetched IMAP message into the pipeline's message
// record, preferring the text/plain part of the body
func (s *IMAPSource) normalize(msg *imap.Message, section *imap.BodySectionName) (*core.EmailMessage, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("message %d has no body section", msg.SeqNum)
	}

	mr, err := gomail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %d: %w", msg.SeqNum, err)
	}

	var text strings.Builder
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		if _, ok := part.Header.(*gomail.InlineHeader); ok {
			content, err := io.ReadAll(part.Body)
			if err != nil {
				continue
			}
			text.Write(content)
			text.WriteString("\n")
		}
	}

	id := ""
	from := ""
	subject := ""
	date := ""
	if msg.Envelope != nil {
		id = msg.Envelope.MessageId
		subject = msg.Envelope.Subject
		if !msg.Envelope.Date.IsZero() {
			date = msg.Envelope.Date.Format(time.RFC3339)
		}
		if len(msg.Envelope.From) > 0 {
			from = msg.Envelope.From[0].Address()
		}
	}
	if id == "" {
		// Some senders omit Message-Id; fall back to a folder-scoped UID
		id = fmt.Sprintf("%s/%d", s.folder, msg.Uid)
	}

	return &core.EmailMessage{
		ID:      id,
		From:    from,
		Subject: subject,
		Body:    text.String(),
		Date:    date,
	}, nil
}
