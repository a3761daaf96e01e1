package storage

import (
	"database/sql"
	"fmt"
	"time"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"

	"stockAnalysis/internal/analytics"
)

const dateLayout = "2006-01-02"

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Begin() (*sql.Tx, error)
	Close() error
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS stock_prices(
		ticker TEXT NOT NULL,
		date   TEXT NOT NULL,
		open   REAL,
		high   REAL,
		low    REAL,
		close  REAL NOT NULL,
		volume INTEGER,
		PRIMARY KEY (ticker, date)
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// InsertPrices writes a series in one transaction. Rows already present for
// the same ticker and date are replaced, so loading a file twice is safe.
func (s *Store) InsertPrices(series analytics.TimeSeries) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO stock_prices(ticker,date,open,high,low,close,volume) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()
	for _, p := range series.Points {
		if _, err := stmt.Exec(series.Ticker, p.Date.Format(dateLayout), p.Open, p.High, p.Low, p.Close, p.Volume); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert %s %s: %w", series.Ticker, p.Date.Format(dateLayout), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(series.Points), nil
}

// LoadSeries reads every ticker back, grouped and sorted by date.
func (s *Store) LoadSeries() ([]analytics.TimeSeries, error) {
	rows, err := s.db.Query(`SELECT ticker,date,open,high,low,close,volume FROM stock_prices ORDER BY ticker ASC, date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.TimeSeries
	for rows.Next() {
		var (
			p               analytics.PricePoint
			date            string
			open, high, low sql.NullFloat64
			volume          sql.NullInt64
		)
		if err := rows.Scan(&p.Ticker, &date, &open, &high, &low, &p.Close, &volume); err != nil {
			return nil, err
		}
		if p.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("ticker %s: %w", p.Ticker, err)
		}
		p.Open, p.High, p.Low, p.Volume = open.Float64, high.Float64, low.Float64, volume.Int64
		if n := len(out); n == 0 || out[n-1].Ticker != p.Ticker {
			out = append(out, analytics.TimeSeries{Ticker: p.Ticker})
		}
		last := &out[len(out)-1]
		last.Points = append(last.Points, p)
	}
	return out, rows.Err()
}

// CountRows returns the number of stored price rows.
func (s *Store) CountRows() (int, error) {
	rows, err := s.db.Query(`SELECT COUNT(*) FROM stock_prices`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}
