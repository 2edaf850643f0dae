package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirozbir/alert2jira/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "tickets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func ticket(requestID, key string, createdAt time.Time) *models.TicketResult {
	return &models.TicketResult{
		RequestID:      requestID,
		IssueKey:       key,
		IssueID:        "1" + key[len(key)-1:],
		IssueURL:       "https://example.atlassian.net/browse/" + key,
		Summary:        "SIEM Alert: " + key,
		RuleID:         "5710",
		AgentName:      "agent01",
		AlertTimestamp: "2024-01-01T00:00:00",
		CreatedAt:      createdAt,
	}
}

func TestSaveAndGetTicket(t *testing.T) {
	db := openTestDB(t)
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	id, err := db.SaveTicket(ticket("req-1", "SOC-1", created), []byte(`{"type":"doc"}`))
	require.NoError(t, err)

	stored, err := db.GetTicket(id)
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "req-1", stored.Ticket.RequestID)
	assert.Equal(t, "SOC-1", stored.Ticket.IssueKey)
	assert.Equal(t, "5710", stored.Ticket.RuleID)
	assert.True(t, created.Equal(stored.Ticket.CreatedAt))
	assert.JSONEq(t, `{"type":"doc"}`, stored.Description)
}

func TestGetTicketMissing(t *testing.T) {
	db := openTestDB(t)

	stored, err := db.GetTicket(99)
	assert.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSaveTicketDuplicateRequest(t *testing.T) {
	db := openTestDB(t)
	now := time.Now()

	_, err := db.SaveTicket(ticket("req-1", "SOC-1", now), []byte(`{}`))
	require.NoError(t, err)

	_, err = db.SaveTicket(ticket("req-1", "SOC-2", now), []byte(`{}`))
	assert.Error(t, err)
}

func TestListTickets(t *testing.T) {
	db := openTestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, key := range []string{"SOC-1", "SOC-2", "SOC-3"} {
		_, err := db.SaveTicket(ticket("req-"+key, key, base.Add(time.Duration(i)*time.Minute)), []byte(`{}`))
		require.NoError(t, err)
	}

	count, err := db.CountTickets()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	page, err := db.ListTickets(2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "SOC-3", page[0].Ticket.IssueKey)
	assert.Equal(t, "SOC-2", page[1].Ticket.IssueKey)

	page, err = db.ListTickets(2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "SOC-1", page[0].Ticket.IssueKey)
}
