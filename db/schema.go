// ABOUTME: Database schema definitions and migrations
// ABOUTME: Creates the CRM tables and rewrites legacy stage and status spellings
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT 'customer',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_name ON companies(name);

CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	job_title TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT 'customer',
	created_at DATETIME NOT NULL,
	last_activity DATETIME
);

CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);

CREATE TABLE IF NOT EXISTS leads (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	status TEXT NOT NULL,
	priority TEXT NOT NULL,
	assigned_to TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);

CREATE TABLE IF NOT EXISTS deals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	value TEXT NOT NULL DEFAULT '0',
	stage TEXT NOT NULL,
	contact_id INTEGER NOT NULL,
	expected_close_date DATETIME,
	probability INTEGER NOT NULL DEFAULT 0,
	sales_rep TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
CREATE INDEX IF NOT EXISTS idx_deals_contact_id ON deals(contact_id);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	due_date DATETIME NOT NULL,
	status TEXT NOT NULL,
	contact_id INTEGER,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);

CREATE TABLE IF NOT EXISTS activities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	type TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	contact_id INTEGER NOT NULL DEFAULT 0,
	deal_id INTEGER,
	timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp DESC);
`

// legacySpellings rewrites values written before stage and task status
// names were canonicalized.
const legacySpellings = `
UPDATE deals SET stage = 'Prospecting' WHERE lower(stage) IN ('lead', 'prospecting') AND stage != 'Prospecting';
UPDATE deals SET stage = 'Qualification' WHERE lower(stage) IN ('qualified', 'qualification') AND stage != 'Qualification';
UPDATE deals SET stage = 'Proposal' WHERE lower(stage) = 'proposal' AND stage != 'Proposal';
UPDATE deals SET stage = 'Negotiation' WHERE lower(stage) = 'negotiation' AND stage != 'Negotiation';
UPDATE deals SET stage = 'Closed Won' WHERE lower(replace(stage, '_', ' ')) IN ('closed', 'won', 'closed won') AND stage != 'Closed Won';
UPDATE deals SET stage = 'Closed Lost' WHERE lower(replace(stage, '_', ' ')) IN ('lost', 'closed lost') AND stage != 'Closed Lost';
UPDATE tasks SET status = 'to-do' WHERE lower(status) IN ('pending', 'todo', 'to do', 'to_do');
UPDATE tasks SET status = 'completed' WHERE lower(status) = 'done';
`

func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(legacySpellings)
	return err
}
