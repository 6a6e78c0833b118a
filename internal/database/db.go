package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool sizing.  Every booking mutation holds a connection for the
// whole transaction, and creations additionally queue on the venue row
// lock, so connections are held longer than a typical point query.  25
// covers the HTTP handlers plus the scheduler workers with headroom;
// idle matches open so a burst of creations never pays reconnect cost.
const (
	maxOpenConns = 25
	maxIdleConns = 25
	connLifetime = 30 * time.Minute
)

// Open connects to MySQL and verifies the connection before anything
// is served.  parseTime maps DATETIME columns onto time.Time and loc
// pins them to UTC; all scheduling arithmetic in this service assumes
// UTC instants, venue timezones enter only at conflict validation.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
