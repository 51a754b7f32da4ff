package cleaner

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Clean removes shared comparison links whose expiry has passed. Lookup
// already deletes expired entries lazily; this sweep keeps links nobody
// ever opens again from accumulating.
func Clean(pool *pgxpool.Pool) {
	command, err := pool.Exec(context.Background(), `DELETE FROM shared_comparison WHERE expires_at < NOW()`)
	if err != nil {
		log.Printf("ERROR|cleaner.Clean:%s", err.Error())
		return
	}
	if command.RowsAffected() > 0 {
		log.Printf("cleaner.Clean: removed %d expired share links", command.RowsAffected())
	}
}
