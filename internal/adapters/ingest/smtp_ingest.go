package ingest

import (
	"bytes"
	"context"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/mailutil"
	"go.uber.org/zap"
)

// SMTPIngest accepts forwarded mail on an SMTP listener and runs each
// message through the extraction pipeline. Users point a forwarding rule
// at it; anything that isn't a job email is accepted and dropped.
type SMTPIngest struct {
	tracker    *core.TrackerService
	logger     *zap.Logger
	listenAddr string
	server     *smtp.Server
}

// NewSMTPIngest creates an SMTP ingest listener
func NewSMTPIngest(tracker *core.TrackerService, listenAddr string, logger *zap.Logger) *SMTPIngest {
	return &SMTPIngest{
		tracker:    tracker,
		logger:     logger,
		listenAddr: listenAddr,
	}
}

// Start starts the SMTP listener
func (i *SMTPIngest) Start() error {
	i.server = smtp.NewServer(&smtpBackend{ingest: i})

	i.server.Addr = i.listenAddr
	i.server.Domain = "localhost"
	i.server.ReadTimeout = 30 * time.Second
	i.server.WriteTimeout = 30 * time.Second
	i.server.MaxMessageBytes = 10 * 1024 * 1024 // 10MB
	i.server.MaxRecipients = 5
	i.server.AllowInsecureAuth = true

	i.logger.Info("SMTP ingest starting", zap.String("address", i.listenAddr))

	go func() {
		if err := i.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				i.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (i *SMTPIngest) Stop() error {
	if i.server != nil {
		return i.server.Close()
	}
	return nil
}

// handleMessage parses a received raw message and records any application
// it yields. Ingest never rejects mail: a message that produces nothing
// is simply dropped.
func (i *SMTPIngest) handleMessage(rawData []byte) {
	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		i.logger.Warn("Failed to parse ingested message", zap.Error(err))
		return
	}

	body, err := mailutil.ExtractText(msg)
	if err != nil {
		i.logger.Warn("Failed to extract text from ingested message", zap.Error(err))
		return
	}

	email := &core.EmailMessage{
		ID:      strings.Trim(msg.Header.Get("Message-Id"), "<> "),
		From:    mailutil.DecodeHeader(msg.Header.Get("From")),
		Subject: mailutil.DecodeHeader(msg.Header.Get("Subject")),
		Body:    body,
		Date:    msg.Header.Get("Date"),
	}
	if email.ID == "" {
		email.ID = "smtp-" + core.Fingerprint(email.Subject, email.Body, 0)
	}

	app, err := i.tracker.Record(context.Background(), email)
	if err != nil {
		i.logger.Error("Failed to record ingested application",
			zap.String("email_id", email.ID),
			zap.Error(err))
		return
	}
	if app != nil {
		i.logger.Info("Recorded application from ingested mail",
			zap.String("company", app.Company),
			zap.String("role", app.Role),
			zap.String("status", string(app.Status)))
	}
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingest *SMTPIngest
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		ingest:     b.ingest,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingest     *SMTPIngest
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication (the listener is trusted-network
// only)
func (s *smtpSession) AuthPlain(_, _ string) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data handles the email data
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.ingest.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	// Accept immediately; extraction happens out of band so a slow oracle
	// never stalls the SMTP conversation.
	go s.ingest.handleMessage(rawData)

	return nil
}
