package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

// ErrNoRun is returned when no stored run exists for a channel
var ErrNoRun = errors.New("no stored run")

// StoredRun is a run snapshot read back from the database
type StoredRun struct {
	Summary RunSummary    `json:"summary"`
	Records []VideoRecord `json:"records"`
}

// Database represents the database connection and operations
type Database struct {
	db *sqlitecloud.SQCloud
}

// NewDatabase creates a new database connection
func NewDatabase(dbPath string) (*Database, error) {
	log.Printf("Connecting to SQLite Cloud database: %s", maskConnectionString(dbPath))

	db, err := sqlitecloud.Connect(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	database := &Database{
		db: db,
	}

	if err := database.createTables(); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

// maskConnectionString hides the API key in logs for security
func maskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.Split(connStr, "apikey=")
		if len(parts) > 1 {
			return parts[0] + "apikey=***"
		}
	}
	return connStr
}

func (d *Database) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS channel_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			channel_id TEXT NOT NULL,
			channel_title TEXT NOT NULL,
			date_fetched TEXT NOT NULL,
			summary_data TEXT NOT NULL,
			records_data TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_channel_runs_channel_id ON channel_runs(channel_id)`,
	}

	for _, table := range tables {
		if err := d.db.Execute(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// StoreRun stores the summary and records of a completed run
func (d *Database) StoreRun(summary RunSummary, records []VideoRecord) error {
	log.Printf("Storing run for channel %s (%d records)", summary.ChannelID, len(records))

	summaryData, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if records == nil {
		records = []VideoRecord{}
	}
	recordsData, err := json.Marshal(records)
	if err != nil {
		return err
	}

	sql := `INSERT INTO channel_runs (channel_id, channel_title, date_fetched, summary_data, records_data)
			VALUES (?, ?, ?, ?, ?)`

	return d.db.ExecuteArray(sql, []interface{}{
		summary.ChannelID,
		summary.ChannelTitle,
		summary.DateFetched,
		string(summaryData),
		string(recordsData),
	})
}

// GetLatestRun retrieves the most recently stored run for a channel
func (d *Database) GetLatestRun(channelID string) (*StoredRun, error) {
	sql := `SELECT summary_data, records_data FROM channel_runs
			WHERE channel_id = ?
			ORDER BY created_at DESC, id DESC LIMIT 1`

	result, err := d.db.SelectArray(sql, []interface{}{channelID})
	if err != nil {
		return nil, err
	}

	if result.GetNumberOfRows() == 0 {
		return nil, fmt.Errorf("%w for channel %s", ErrNoRun, channelID)
	}

	summaryData, err := result.GetStringValue(0, 0)
	if err != nil {
		return nil, err
	}
	recordsData, err := result.GetStringValue(0, 1)
	if err != nil {
		return nil, err
	}

	return decodeRun(summaryData, recordsData)
}

func decodeRun(summaryData, recordsData string) (*StoredRun, error) {
	var run StoredRun
	if err := json.Unmarshal([]byte(summaryData), &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode run summary: %w", err)
	}
	if err := json.Unmarshal([]byte(recordsData), &run.Records); err != nil {
		return nil, fmt.Errorf("failed to decode run records: %w", err)
	}
	return &run, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
