package database

import (
	"database/sql"
	"fmt"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS accounts (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				email VARCHAR(255) UNIQUE NOT NULL,
				display_name VARCHAR(255) NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);

			CREATE TABLE IF NOT EXISTS channels (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				owner_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
				platform_id VARCHAR(64) UNIQUE NOT NULL,
				login VARCHAR(255) UNIQUE NOT NULL,
				joined BOOLEAN NOT NULL DEFAULT TRUE,
				authorized BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_channels_login ON channels(login);
		`,
		Down: `
			DROP TABLE IF EXISTS channels;
			DROP TABLE IF EXISTS accounts;
		`,
	},
	{
		Version: 2,
		Up: `
			CREATE TABLE IF NOT EXISTS stream_sessions (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				channel_id UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
				active BOOLEAN NOT NULL DEFAULT TRUE,
				started_at TIMESTAMP NOT NULL DEFAULT NOW(),
				archived_at TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_sessions_channel ON stream_sessions(channel_id);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_active
				ON stream_sessions(channel_id) WHERE active;

			CREATE TABLE IF NOT EXISTS songs (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				channel_id UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
				artist VARCHAR(255) NOT NULL DEFAULT '',
				title VARCHAR(255) NOT NULL,
				link TEXT,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE UNIQUE INDEX IF NOT EXISTS idx_songs_channel_link
				ON songs(channel_id, link) WHERE link IS NOT NULL;

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				channel_id UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
				platform_user_id VARCHAR(64) NOT NULL,
				display_name VARCHAR(255) NOT NULL DEFAULT '',
				amount_requested INT NOT NULL DEFAULT 0,
				prio_points INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
				UNIQUE(channel_id, platform_user_id)
			);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
			DROP TABLE IF EXISTS songs;
			DROP TABLE IF EXISTS stream_sessions;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS channel_settings (
				channel_id UUID PRIMARY KEY REFERENCES channels(id) ON DELETE CASCADE,
				overall_queue_cap INT NOT NULL DEFAULT 0,
				nonpriority_queue_cap INT NOT NULL DEFAULT 0,
				max_requests_per_user INT NOT NULL DEFAULT 0,
				max_prio_points INT NOT NULL DEFAULT 100,
				max_prio_per_user INT NOT NULL DEFAULT 3,
				max_free_bumps_per_stream INT NOT NULL DEFAULT 1,
				queue_closed BOOLEAN NOT NULL DEFAULT FALSE,
				prio_only BOOLEAN NOT NULL DEFAULT FALSE,
				allow_bumps BOOLEAN NOT NULL DEFAULT TRUE,
				follow_enabled BOOLEAN NOT NULL DEFAULT FALSE,
				raid_enabled BOOLEAN NOT NULL DEFAULT FALSE,
				sub_enabled BOOLEAN NOT NULL DEFAULT FALSE,
				bits_enabled BOOLEAN NOT NULL DEFAULT FALSE,
				prio_follow_points INT NOT NULL DEFAULT 0,
				prio_raid_points INT NOT NULL DEFAULT 0,
				prio_sub_tier1_points INT NOT NULL DEFAULT 0,
				prio_sub_tier2_points INT NOT NULL DEFAULT 0,
				prio_sub_tier3_points INT NOT NULL DEFAULT 0,
				prio_bits_per_point INT NOT NULL DEFAULT 0,
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS channel_settings;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS requests (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				channel_id UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
				session_id UUID NOT NULL REFERENCES stream_sessions(id) ON DELETE CASCADE,
				song_id UUID NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
				user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				position INT NOT NULL,
				is_priority BOOLEAN NOT NULL DEFAULT FALSE,
				priority_source VARCHAR(32) NOT NULL DEFAULT '',
				bumped BOOLEAN NOT NULL DEFAULT FALSE,
				played BOOLEAN NOT NULL DEFAULT FALSE,
				request_time TIMESTAMP NOT NULL DEFAULT NOW(),
				played_at TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_requests_session ON requests(session_id);
			CREATE INDEX IF NOT EXISTS idx_requests_session_pending
				ON requests(session_id, is_priority, position) WHERE NOT played;
		`,
		Down: `
			DROP TABLE IF EXISTS requests;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS playlists (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				channel_id UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				visibility VARCHAR(32) NOT NULL DEFAULT 'private',
				source VARCHAR(32) NOT NULL DEFAULT 'manual',
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_playlists_channel ON playlists(channel_id);

			CREATE TABLE IF NOT EXISTS playlist_items (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				playlist_id UUID NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
				position INT NOT NULL,
				link TEXT NOT NULL,
				title VARCHAR(255) NOT NULL DEFAULT '',
				artist VARCHAR(255) NOT NULL DEFAULT '',
				duration_seconds INT NOT NULL DEFAULT 0
			);

			CREATE INDEX IF NOT EXISTS idx_playlist_items_playlist ON playlist_items(playlist_id);

			CREATE TABLE IF NOT EXISTS playlist_keywords (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				playlist_id UUID NOT NULL REFERENCES playlists(id) ON DELETE CASCADE,
				keyword VARCHAR(255) NOT NULL,
				UNIQUE(playlist_id, keyword)
			);

			CREATE INDEX IF NOT EXISTS idx_playlist_keywords_keyword ON playlist_keywords(keyword);
		`,
		Down: `
			DROP TABLE IF EXISTS playlist_keywords;
			DROP TABLE IF EXISTS playlist_items;
			DROP TABLE IF EXISTS playlists;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS events (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				channel_id UUID NOT NULL REFERENCES channels(id) ON DELETE CASCADE,
				event_time BIGINT NOT NULL,
				type VARCHAR(64) NOT NULL,
				user_id UUID,
				meta JSONB,
				UNIQUE(channel_id, event_time)
			);

			CREATE INDEX IF NOT EXISTS idx_events_channel_time ON events(channel_id, event_time);
		`,
		Down: `
			DROP TABLE IF EXISTS events;
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	// Run pending migrations in ascending order by version
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })

	// Run pending migrations
	for _, migration := range sorted {
		if migration.Version <= currentVersion {
			continue
		}

		fmt.Printf("Running migration %d...\n", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		fmt.Printf("Migration %d completed\n", migration.Version)
	}

	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
