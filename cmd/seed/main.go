package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oktavandi/tasknest/config"
	"github.com/oktavandi/tasknest/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@tasknest.dev"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, uuid.NewString(), name, email, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	deadline := time.Now().AddDate(0, 0, 7)

	taskID := uuid.NewString()
	if _, err := db.Exec(`
		INSERT INTO tasks (id, owner_id, subject, deadline, status, is_deleted, position)
		VALUES ($1, $2, $3, $4, $5, false,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE owner_id = $2))
	`, taskID, userID, "Prepare project kickoff", deadline, "in_progress"); err != nil {
		log.Fatalf("failed to seed task: %v", err)
	}

	subtasks := []struct {
		subject string
		status  string
		deleted bool
	}{
		{"Draft the agenda", "done", false},
		{"Book the meeting room", "pending", false},
		{"Invite the old team lead", "pending", true},
	}
	for i, st := range subtasks {
		if _, err := db.Exec(`
			INSERT INTO subtasks (id, task_id, subject, deadline, status, is_deleted, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), taskID, st.subject, deadline, st.status, st.deleted, i); err != nil {
			log.Fatalf("failed to seed subtask: %v", err)
		}
	}
	fmt.Printf("seeded task %s with %d subtasks (one soft-deleted)\n", taskID, len(subtasks))

	if _, err := db.Exec(`
		INSERT INTO tasks (id, owner_id, subject, deadline, status, is_deleted, position)
		VALUES ($1, $2, $3, $4, 'pending', true,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE owner_id = $2))
	`, uuid.NewString(), userID, "Old migration plan", deadline); err != nil {
		log.Fatalf("failed to seed deleted task: %v", err)
	}
	fmt.Println("seeded one soft-deleted task (hidden from listings)")
}
