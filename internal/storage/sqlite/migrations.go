package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Amounts are stored as decimal
// TEXT so 256-bit values survive unharmed; timestamps are milliseconds since
// epoch. The unique index on escrows.commitment enforces that a digest is
// bound to exactly one escrow.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS escrows (
    id TEXT PRIMARY KEY,
    commitment TEXT NOT NULL,
    amount TEXT NOT NULL,
    maker TEXT NOT NULL,
    timelock INTEGER NOT NULL,
    metadata TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL,
    revealed_secret TEXT,
    beneficiary TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS auctions (
    id TEXT PRIMARY KEY,
    escrow_id TEXT NOT NULL,
    seller TEXT NOT NULL,
    start_price TEXT NOT NULL,
    end_price TEXT NOT NULL,
    start_time INTEGER NOT NULL,
    duration INTEGER NOT NULL,
    commitment TEXT NOT NULL,
    metadata TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL,
    winner TEXT,
    final_price TEXT,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (escrow_id) REFERENCES escrows(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_escrows_commitment ON escrows(commitment);
CREATE INDEX IF NOT EXISTS idx_auctions_escrow_id ON auctions(escrow_id);
CREATE INDEX IF NOT EXISTS idx_auctions_state ON auctions(state);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
