package mailbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleMbox = `From jobs@acme.example Tue Feb  3 10:30:00 2026
From: Acme Recruiting <jobs@acme.example>
To: candidate@example.com
Subject: Your application to Acme
Date: Tue, 03 Feb 2026 10:30:00 +0100
Message-Id: <msg-1@acme.example>

Thank you for applying to the Software Engineer position.

From no-reply@globex.example Wed Feb  4 09:00:00 2026
From: Globex <no-reply@globex.example>
To: candidate@example.com
Subject: Interview invitation
Date: Wed, 04 Feb 2026 09:00:00 +0000

We would like to schedule an interview.
`

func writeMbox(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mail.mbox")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMboxSourceFetch(t *testing.T) {
	source := NewMboxSource(writeMbox(t, sampleMbox), zap.NewNop())

	messages, err := source.Fetch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "msg-1@acme.example", messages[0].ID)
	assert.Equal(t, "Acme Recruiting <jobs@acme.example>", messages[0].From)
	assert.Equal(t, "Your application to Acme", messages[0].Subject)
	assert.Contains(t, messages[0].Body, "Software Engineer position")
	assert.Equal(t, "Tue, 03 Feb 2026 10:30:00 +0100", messages[0].Date)

	// Missing Message-Id gets a stable content-derived ID
	assert.Contains(t, messages[1].ID, "mbox-")
	assert.Len(t, messages[1].ID, len("mbox-")+16)
}

func TestMboxSourceFetchLimit(t *testing.T) {
	source := NewMboxSource(writeMbox(t, sampleMbox), zap.NewNop())

	messages, err := source.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestMboxSourceMissingFile(t *testing.T) {
	source := NewMboxSource(filepath.Join(t.TempDir(), "nope.mbox"), zap.NewNop())

	_, err := source.Fetch(context.Background(), 10)
	assert.Error(t, err)
}

func TestMboxSourceStableIDs(t *testing.T) {
	path := writeMbox(t, sampleMbox)
	source := NewMboxSource(path, zap.NewNop())

	first, err := source.Fetch(context.Background(), 10)
	require.NoError(t, err)
	second, err := source.Fetch(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[1].ID, second[1].ID)
}
