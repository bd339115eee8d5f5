package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Statements run in dependency order so foreign keys resolve. Each one is
// guarded with IF NOT EXISTS; there is no migration framework beyond that.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL CHECK (role IN ('super_admin', 'school_admin', 'moderator')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS teachers (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT UNIQUE REFERENCES users(id) ON DELETE SET NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		phone VARCHAR(20),
		gender VARCHAR(10) CHECK (gender IN ('male', 'female', 'other')),
		qualification VARCHAR(255),
		experience_years INT NOT NULL DEFAULT 0,
		subjects TEXT,
		grade VARCHAR(50),
		joining_date DATE,
		salary NUMERIC(10,2),
		address TEXT,
		status VARCHAR(10) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS subjects (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(50) UNIQUE NOT NULL,
		type VARCHAR(10) NOT NULL DEFAULT 'core' CHECK (type IN ('core', 'elective', 'optional')),
		stream VARCHAR(15) CHECK (stream IN ('science', 'commerce', 'humanities', 'general')),
		grades TEXT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS grades (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) UNIQUE NOT NULL,
		segment VARCHAR(15) NOT NULL CHECK (segment IN ('primary', 'secondary', 'sr_secondary')),
		subjects JSONB NOT NULL DEFAULT '[]',
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS classes (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		segment VARCHAR(15) NOT NULL CHECK (segment IN ('primary', 'secondary', 'sr_secondary')),
		grade VARCHAR(20) NOT NULL,
		section VARCHAR(10),
		class_teacher_id BIGINT REFERENCES teachers(id) ON DELETE SET NULL,
		max_students INT NOT NULL DEFAULT 40,
		current_students INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		admission_number VARCHAR(50) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(20),
		gender VARCHAR(10) CHECK (gender IN ('male', 'female', 'other')),
		date_of_birth DATE,
		class_id BIGINT REFERENCES classes(id) ON DELETE SET NULL,
		section VARCHAR(10),
		roll_number INT,
		parent_name VARCHAR(255),
		parent_phone VARCHAR(20),
		parent_email VARCHAR(255),
		address TEXT,
		admission_date DATE,
		status VARCHAR(15) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'transferred')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS timetable (
		id BIGSERIAL PRIMARY KEY,
		class_id BIGINT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		day_of_week VARCHAR(10) NOT NULL CHECK (day_of_week IN ('monday', 'tuesday', 'wednesday', 'thursday', 'friday', 'saturday')),
		period_number INT NOT NULL,
		subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		teacher_id BIGINT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
		room VARCHAR(50),
		start_time TIME NOT NULL,
		end_time TIME NOT NULL,
		academic_year VARCHAR(20),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT unique_schedule UNIQUE (class_id, day_of_week, period_number)
	)`,

	`CREATE TABLE IF NOT EXISTS events (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		type VARCHAR(10) NOT NULL CHECK (type IN ('holiday', 'exam', 'ptm', 'activity', 'other')),
		start_date DATE NOT NULL,
		end_date DATE,
		start_time TIME,
		end_time TIME,
		location VARCHAR(255),
		target_audience TEXT,
		status VARCHAR(10) NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'ongoing', 'completed', 'cancelled')),
		created_by BIGINT REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS announcements (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		type VARCHAR(10) NOT NULL DEFAULT 'general' CHECK (type IN ('general', 'urgent', 'academic', 'event')),
		target_audience TEXT,
		attachments TEXT,
		expiry_date DATE,
		status VARCHAR(10) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'expired')),
		created_by BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id BIGSERIAL PRIMARY KEY,
		key VARCHAR(100) UNIQUE NOT NULL,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// Legacy deployments predate the teachers.grade column.
	`ALTER TABLE teachers ADD COLUMN IF NOT EXISTS grade VARCHAR(50)`,
}

// Initialize creates the schema when missing. It is safe to run on every
// startup.
func Initialize(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}
