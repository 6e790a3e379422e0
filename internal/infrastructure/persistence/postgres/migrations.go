package postgres

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// Users and courses are document rows: scalar columns for what the store
// filters or aggregates on directly, JSONB for the embedded records the
// domain layer owns (enrollment ledgers, content trees, view logs).
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_courses",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS users (
    id               UUID PRIMARY KEY,
    first_name       TEXT NOT NULL,
    last_name        TEXT NOT NULL,
    email            TEXT NOT NULL UNIQUE,
    hashed_password  TEXT NOT NULL,
    photo_url        TEXT NOT NULL DEFAULT '',
    bio              TEXT NOT NULL DEFAULT '',
    role             TEXT NOT NULL DEFAULT 'student',
    pending_role     TEXT NOT NULL DEFAULT '',
    enrolled_courses JSONB NOT NULL DEFAULT '[]',
    wishlisted_ids   JSONB NOT NULL DEFAULT '[]',
    last_login       TIMESTAMPTZ,
    last_action      JSONB NOT NULL DEFAULT '[]',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
`

const migration001Down = `
DROP TABLE IF EXISTS users;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS courses (
    id                UUID PRIMARY KEY,
    name              TEXT NOT NULL,
    type              TEXT NOT NULL,
    description       TEXT NOT NULL DEFAULT '',
    author_id         UUID NOT NULL,
    articles          JSONB NOT NULL DEFAULT '[]',
    index_photo_url   TEXT NOT NULL DEFAULT '',
    enrolled_students INTEGER NOT NULL DEFAULT 0,
    difficulty        TEXT NOT NULL,
    price             DOUBLE PRECISION NOT NULL DEFAULT 0,
    visibility        TEXT NOT NULL DEFAULT 'Private',
    duration          INTEGER NOT NULL DEFAULT 0,
    views             JSONB NOT NULL DEFAULT '[]',
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_courses_author_name UNIQUE (author_id, name)
);

CREATE INDEX IF NOT EXISTS idx_courses_author ON courses(author_id);
CREATE INDEX IF NOT EXISTS idx_courses_visibility ON courses(visibility);
CREATE INDEX IF NOT EXISTS idx_courses_type ON courses(type);
CREATE INDEX IF NOT EXISTS idx_courses_created_at ON courses(created_at);
`

const migration002Down = `
DROP TABLE IF EXISTS courses;
`
