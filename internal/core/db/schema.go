package db

func (db *DB) initSchema() error {
	schema := `
	-- Projects, one row per encoded directory or config-only path
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		display_path TEXT,
		name TEXT,
		session_count INTEGER DEFAULT 0,
		last_activity DATETIME,
		has_session_data BOOLEAN,
		is_orphan BOOLEAN,
		last_session_id TEXT,
		last_cost REAL,
		last_duration REAL,
		last_total_input_tokens INTEGER,
		last_total_output_tokens INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_projects_path ON projects(path);

	-- Sessions table
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		project_id TEXT NOT NULL,
		project_path TEXT NOT NULL,
		start_time DATETIME,
		end_time DATETIME,
		last_modified DATETIME,
		message_count INTEGER DEFAULT 0,
		model TEXT,
		is_agent BOOLEAN,
		parent_session_id TEXT,
		UNIQUE (project_id, session_id),
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_session_id ON sessions(session_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time);
	CREATE INDEX IF NOT EXISTS idx_sessions_parent ON sessions(parent_session_id);

	-- Messages table
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid TEXT,
		session_id INTEGER NOT NULL,
		parent_uuid TEXT,
		type TEXT NOT NULL,
		content TEXT,
		text_content TEXT,
		timestamp DATETIME,
		sequence INTEGER,
		model TEXT,
		cwd TEXT,
		git_branch TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_messages_uuid ON messages(uuid);
	CREATE INDEX IF NOT EXISTS idx_messages_session_id ON messages(session_id);
	CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);

	-- Per-day rollup of session starts
	CREATE TABLE IF NOT EXISTS daily_activity (
		date TEXT NOT NULL,
		project_id TEXT NOT NULL,
		session_count INTEGER NOT NULL,
		agent_session_count INTEGER NOT NULL,
		message_count INTEGER NOT NULL,
		PRIMARY KEY (date, project_id)
	);

	-- Prompt history (history.jsonl)
	CREATE TABLE IF NOT EXISTS prompts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		display TEXT NOT NULL,
		timestamp DATETIME,
		project_path TEXT,
		project_id TEXT,
		pasted_contents TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_prompts_timestamp ON prompts(timestamp);

	-- Export log table
	CREATE TABLE IF NOT EXISTS export_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		claude_dir TEXT NOT NULL,
		exported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		projects_exported INTEGER,
		sessions_exported INTEGER,
		messages_exported INTEGER,
		prompts_exported INTEGER,
		status TEXT CHECK(status IN ('success', 'partial', 'failed')),
		error_message TEXT
	);

	-- FTS5 tables for full-text search
	-- Natural language search with porter stemming
	CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts USING fts5(
		text_content,
		content=messages,
		content_rowid=id,
		tokenize='porter unicode61'
	);

	-- Code search without stemming (preserves symbols, camelCase)
	CREATE VIRTUAL TABLE IF NOT EXISTS messages_fts_code USING fts5(
		text_content,
		content=messages,
		content_rowid=id,
		tokenize='unicode61'
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS prompts_fts USING fts5(
		display,
		content=prompts,
		content_rowid=id,
		tokenize='porter unicode61'
	);

	-- Triggers to keep FTS in sync
	CREATE TRIGGER IF NOT EXISTS messages_ai AFTER INSERT ON messages BEGIN
		INSERT INTO messages_fts(rowid, text_content) VALUES (new.id, new.text_content);
		INSERT INTO messages_fts_code(rowid, text_content) VALUES (new.id, new.text_content);
	END;

	CREATE TRIGGER IF NOT EXISTS messages_ad AFTER DELETE ON messages BEGIN
		INSERT INTO messages_fts(messages_fts, rowid, text_content) VALUES ('delete', old.id, old.text_content);
		INSERT INTO messages_fts_code(messages_fts_code, rowid, text_content) VALUES ('delete', old.id, old.text_content);
	END;

	CREATE TRIGGER IF NOT EXISTS prompts_ai AFTER INSERT ON prompts BEGIN
		INSERT INTO prompts_fts(rowid, display) VALUES (new.id, new.display);
	END;

	CREATE TRIGGER IF NOT EXISTS prompts_ad AFTER DELETE ON prompts BEGIN
		INSERT INTO prompts_fts(prompts_fts, rowid, display) VALUES ('delete', old.id, old.display);
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}
