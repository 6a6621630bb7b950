package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email TEXT NOT NULL,
    email_blind_index TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    google_subject TEXT UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    full_name TEXT,
    avatar_url TEXT,
    points INTEGER NOT NULL DEFAULT 0,
    current_streak INTEGER NOT NULL DEFAULT 0,
    total_days INTEGER NOT NULL DEFAULT 0,
    last_entry_date DATE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS compass_entries (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date DATE NOT NULL,
    physical_activity TEXT,
    physical_description TEXT,
    emotion TEXT,
    emotion_emoji TEXT,
    intellectual_activity TEXT,
    intellectual_description TEXT,
    thought_of_day TEXT,
    event_of_day TEXT,
    person_of_day TEXT,
    gratitude_of_day TEXT,
    value_of_day TEXT,
    points_earned INTEGER DEFAULT 10,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, date)
);

CREATE TABLE IF NOT EXISTS essay_topics (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title TEXT NOT NULL UNIQUE,
    deadline DATE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS essays (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    topic_id UUID NOT NULL REFERENCES essay_topics(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    character_count INTEGER NOT NULL CHECK (character_count BETWEEN 500 AND 4000),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, topic_id)
);

CREATE TABLE IF NOT EXISTS first_times (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    date DATE NOT NULL,
    why_recorded TEXT,
    what_changed TEXT,
    how_use_experience TEXT,
    what_proud_improve TEXT,
    emotions TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS wishes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    order_number INTEGER NOT NULL CHECK (order_number BETWEEN 1 AND 100),
    wish TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, order_number)
);

CREATE TABLE IF NOT EXISTS monthly_photos (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    year INTEGER NOT NULL CHECK (year BETWEEN 2000 AND 2100),
    photo_url TEXT NOT NULL,
    storage_key TEXT NOT NULL,
    caption TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, year, month)
);

CREATE TABLE IF NOT EXISTS fitness_tests (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    test_number INTEGER NOT NULL CHECK (test_number BETWEEN 1 AND 4),
    date DATE NOT NULL,
    run_2400m_seconds INTEGER NOT NULL CHECK (run_2400m_seconds >= 1),
    pushups INTEGER NOT NULL CHECK (pushups >= 0),
    abs INTEGER NOT NULL CHECK (abs >= 0),
    long_jump_cm INTEGER NOT NULL CHECK (long_jump_cm >= 1),
    run_40m_seconds NUMERIC(5,2) NOT NULL CHECK (run_40m_seconds >= 0.1),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, test_number)
);

CREATE TABLE IF NOT EXISTS english_tests (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    test_number INTEGER NOT NULL CHECK (test_number BETWEEN 1 AND 3),
    date DATE NOT NULL,
    grammar INTEGER NOT NULL CHECK (grammar BETWEEN 0 AND 100),
    vocabulary INTEGER NOT NULL CHECK (vocabulary BETWEEN 0 AND 100),
    reading INTEGER NOT NULL CHECK (reading BETWEEN 0 AND 100),
    listening INTEGER NOT NULL CHECK (listening BETWEEN 0 AND 100),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (user_id, test_number)
);

CREATE TABLE IF NOT EXISTS actions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    activity_type TEXT NOT NULL,
    date DATE NOT NULL,
    time_spent INTEGER NOT NULL DEFAULT 0 CHECK (time_spent >= 0),
    work_done TEXT NOT NULL,
    emotions TEXT,
    insights TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS compass_entries_user_date_idx ON compass_entries (user_id, date DESC);
CREATE INDEX IF NOT EXISTS first_times_user_date_idx ON first_times (user_id, date DESC);
CREATE INDEX IF NOT EXISTS actions_user_date_idx ON actions (user_id, date DESC);
`

// Topics every new installation starts with. Deadlines are fixed dates in
// the first training season; more topics are added with plain SQL.
const seedTopics = `
INSERT INTO essay_topics (title, deadline) VALUES
    ('Що для мене означає бути вільним', '2025-10-01'),
    ('Людина, яка мене надихає', '2025-11-01'),
    ('Мій внесок у майбутнє України', '2025-12-01')
ON CONFLICT (title) DO NOTHING;
`

func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	steps := []struct {
		name string
		sql  string
	}{
		{"schema", schema},
		{"seed essay topics", seedTopics},
	}
	for _, s := range steps {
		if _, err := db.ExecContext(ctx, s.sql); err != nil {
			return fmt.Errorf("migrate %s: %w", s.name, err)
		}
	}
	return nil
}
