package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements create the relational schema. Every statement is
// idempotent so the bootstrap can run on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		national_id TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		admission_date DATE,
		phone TEXT,
		address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		national_id TEXT UNIQUE NOT NULL,
		birth_date DATE,
		email TEXT UNIQUE NOT NULL,
		education_background TEXT,
		address TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		national_id TEXT UNIQUE NOT NULL,
		birth_date DATE,
		email TEXT UNIQUE,
		phone TEXT,
		address TEXT,
		family_income NUMERIC(10,2),
		referral_source TEXT,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		responsible_staff_id TEXT REFERENCES staff(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		duration_label TEXT,
		location TEXT,
		responsible_teacher_name TEXT,
		schedule_label TEXT,
		registration_date DATE DEFAULT CURRENT_DATE,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		responsible_staff_name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS education_records (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		level TEXT NOT NULL,
		institution TEXT,
		completion_year INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		enrollment_date DATE NOT NULL DEFAULT CURRENT_DATE,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		UNIQUE (student_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS course_verifications (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		verified_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		status TEXT NOT NULL DEFAULT 'PENDING',
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS teaching_assignments (
		id TEXT PRIMARY KEY,
		teacher_id TEXT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		start_date DATE,
		end_date DATE,
		status TEXT NOT NULL DEFAULT 'ACTIVE'
	)`,
	`CREATE TABLE IF NOT EXISTS staff_teacher_links (
		id TEXT PRIMARY KEY,
		staff_id TEXT NOT NULL REFERENCES staff(id) ON DELETE CASCADE,
		teacher_id TEXT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
		linked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		status TEXT NOT NULL DEFAULT 'ACTIVE'
	)`,
}

// Migrate creates the schema if it is absent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
