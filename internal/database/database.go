package database

import (
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/emirozbir/alert2jira/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	issue_key TEXT NOT NULL,
	issue_id TEXT NOT NULL,
	issue_url TEXT NOT NULL,
	summary TEXT NOT NULL,
	rule_id TEXT NOT NULL,
	agent_name TEXT NOT NULL,
	alert_timestamp TEXT NOT NULL,
	description_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tickets_created_at ON tickets(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_tickets_rule_id ON tickets(rule_id);
`

type DB struct {
	conn *sql.DB
}

// StoredTicket is a history row: the ticket result plus the ADF description
// that was sent.
type StoredTicket struct {
	ID          int64
	Ticket      models.TicketResult
	Description string
}

// New opens (creating if needed) the history database at dbPath.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to enable WAL mode")
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveTicket records a created ticket and returns its row id.
func (db *DB) SaveTicket(ticket *models.TicketResult, description []byte) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO tickets (
			request_id, created_at, issue_key, issue_id, issue_url, summary,
			rule_id, agent_name, alert_timestamp, description_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ticket.RequestID,
		ticket.CreatedAt.UTC(),
		ticket.IssueKey,
		ticket.IssueID,
		ticket.IssueURL,
		ticket.Summary,
		ticket.RuleID,
		ticket.AgentName,
		ticket.AlertTimestamp,
		string(description),
	)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert ticket")
	}

	return res.LastInsertId()
}

const selectTicket = `
	SELECT id, request_id, created_at, issue_key, issue_id, issue_url, summary,
	       rule_id, agent_name, alert_timestamp, description_json
	FROM tickets
`

type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(row scanner) (*StoredTicket, error) {
	var (
		stored    StoredTicket
		createdAt time.Time
	)

	err := row.Scan(
		&stored.ID,
		&stored.Ticket.RequestID,
		&createdAt,
		&stored.Ticket.IssueKey,
		&stored.Ticket.IssueID,
		&stored.Ticket.IssueURL,
		&stored.Ticket.Summary,
		&stored.Ticket.RuleID,
		&stored.Ticket.AgentName,
		&stored.Ticket.AlertTimestamp,
		&stored.Description,
	)
	if err != nil {
		return nil, err
	}
	stored.Ticket.CreatedAt = createdAt

	return &stored, nil
}

// GetTicket returns nil, nil when no row has the given id.
func (db *DB) GetTicket(id int64) (*StoredTicket, error) {
	stored, err := scanTicket(db.conn.QueryRow(selectTicket+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query ticket")
	}
	return stored, nil
}

// ListTickets returns tickets newest first.
func (db *DB) ListTickets(limit, offset int) ([]StoredTicket, error) {
	rows, err := db.conn.Query(selectTicket+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tickets")
	}
	defer rows.Close()

	var tickets []StoredTicket
	for rows.Next() {
		stored, err := scanTicket(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		tickets = append(tickets, *stored)
	}

	return tickets, rows.Err()
}

func (db *DB) CountTickets() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM tickets").Scan(&count)
	return count, err
}
