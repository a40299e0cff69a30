// Command seed creates the database schema and loads the demo dataset.
// Running it twice is safe: existing rows are left untouched.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamcal/teamcal-api/internal/models"
	"github.com/teamcal/teamcal-api/pkg/config"
	"github.com/teamcal/teamcal-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS teams (
    id          UUID PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    role          TEXT NOT NULL CHECK (role IN ('user', 'admin')),
    team_id       UUID REFERENCES teams(id),
    external      BOOLEAN NOT NULL DEFAULT FALSE,
    last_login    TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS events (
    id          UUID PRIMARY KEY,
    title       TEXT NOT NULL,
    type        TEXT NOT NULL,
    scope       TEXT NOT NULL CHECK (scope IN ('personal', 'team')),
    status      TEXT NOT NULL CHECK (status IN ('pending', 'approved', 'rejected')),
    start_at    TIMESTAMPTZ NOT NULL,
    end_at      TIMESTAMPTZ NOT NULL,
    creator_id  UUID NOT NULL REFERENCES users(id),
    team_id     UUID REFERENCES teams(id),
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
CREATE INDEX IF NOT EXISTS idx_events_creator ON events(creator_id);

CREATE TABLE IF NOT EXISTS refresh_tokens (
    id          UUID PRIMARY KEY,
    user_id     UUID NOT NULL REFERENCES users(id),
    token       TEXT NOT NULL UNIQUE,
    expires_at  TIMESTAMPTZ NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    revoked     BOOLEAN NOT NULL DEFAULT FALSE,
    revoked_at  TIMESTAMPTZ,
    ip_address  TEXT,
    user_agent  TEXT
);

CREATE TABLE IF NOT EXISTS audit_logs (
    id          UUID PRIMARY KEY,
    user_id     UUID,
    action      TEXT NOT NULL,
    resource    TEXT,
    resource_id TEXT,
    new_values  JSONB,
    ip_address  TEXT,
    user_agent  TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

type seedUser struct {
	username string
	password string
	role     models.UserRole
	team     string
}

var seedUsers = []seedUser{
	{username: "admin", password: "admin123", role: models.RoleAdmin},
	{username: "alice", password: "alice123", role: models.RoleUser, team: "Engineering"},
	{username: "bob", password: "bob123", role: models.RoleUser, team: "HR"},
	{username: "john", password: "john123", role: models.RoleUser, team: "Engineering"},
}

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall seed timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	teams := map[string]string{}
	for _, name := range []string{"Engineering", "HR"} {
		id, err := ensureTeam(ctx, db, name)
		if err != nil {
			log.Fatalf("seed team %s: %v", name, err)
		}
		teams[name] = id
	}

	for _, u := range seedUsers {
		var teamID *string
		if u.team != "" {
			id := teams[u.team]
			teamID = &id
		}
		if err := ensureUser(ctx, db, u, teamID); err != nil {
			log.Fatalf("seed user %s: %v", u.username, err)
		}
	}

	log.Println("seed complete")
}

func ensureTeam(ctx context.Context, db *sqlx.DB, name string) (string, error) {
	var id string
	err := db.GetContext(ctx, &id, "SELECT id FROM teams WHERE name = $1", name)
	if err == nil {
		return id, nil
	}

	id = uuid.NewString()
	_, err = db.ExecContext(ctx, "INSERT INTO teams (id, name) VALUES ($1, $2)", id, name)
	if err != nil {
		return "", err
	}
	log.Printf("created team %s", name)
	return id, nil
}

func ensureUser(ctx context.Context, db *sqlx.DB, u seedUser, teamID *string) error {
	var exists bool
	if err := db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)", u.username); err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO users (id, username, password_hash, role, team_id) VALUES ($1, $2, $3, $4, $5)",
		uuid.NewString(), u.username, string(hash), u.role, teamID,
	)
	if err != nil {
		return err
	}
	log.Printf("created user %s", u.username)
	return nil
}
