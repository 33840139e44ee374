// Command cleanup expires stale invites and verification codes directly in
// postgres. It is meant for cron when the API server is not running. Users
// whose codes expired lose their cached statuses when REDIS_ADDR is set.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"arena/internal/cache"
	"arena/internal/config"
	"arena/internal/logger"
)

const expireInvitesSQL = `
	UPDATE invites SET status = 'expired', updated_at = $1
	WHERE status IN ('presented', 'negotiating', 'proposed') AND expires_at < $1`

const expireCodesSQL = `
	UPDATE verifications SET status = 'failed', review_note = 'code expired', updated_at = $1
	WHERE status = 'pending' AND submitted_at IS NULL AND code_expires_at < $1
	RETURNING user_id`

func main() {
	dryRun := flag.Bool("dry-run", false, "only count the rows that would change")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Infof("No .env file found, using environment variables")
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "arena"),
		getEnv("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		logger.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	now := time.Now()
	res, err := tx.Exec(expireInvitesSQL, now)
	if err != nil {
		logger.Fatalf("Failed to expire invites: %v", err)
	}
	n, _ := res.RowsAffected()
	logger.Infof("Expired %d invites", n)

	userIDs, err := expireCodes(tx, now)
	if err != nil {
		logger.Fatalf("Failed to expire verification codes: %v", err)
	}
	logger.Infof("Expired %d verification codes", len(userIDs))

	if *dryRun {
		logger.Infof("Dry run, rolling back")
		return
	}
	if err := tx.Commit(); err != nil {
		logger.Fatalf("Failed to commit: %v", err)
	}

	client := cache.NewClient(config.RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if client == nil {
		return
	}
	defer client.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := cache.NewVerificationCache(client, 0).InvalidateUsers(ctx, userIDs); err != nil {
		// entries still expire on their own TTL
		logger.Errorf("Failed to invalidate verification cache: %v", err)
	}
}

func expireCodes(tx *sql.Tx, now time.Time) ([]uint, error) {
	rows, err := tx.Query(expireCodesSQL, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
