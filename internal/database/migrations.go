package database

// Amounts are stored in cents. Participants reference their bill with
// ON DELETE CASCADE; the store also deletes them explicitly.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS bills (
    id UUID PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    total_amount BIGINT NOT NULL CHECK (total_amount > 0),
    strategy VARCHAR(16) NOT NULL,
    bill_date DATE NOT NULL,
    status VARCHAR(16) NOT NULL,
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    id UUID PRIMARY KEY,
    bill_id UUID NOT NULL REFERENCES bills(id) ON DELETE CASCADE,
    name VARCHAR(100) NOT NULL,
    amount BIGINT NOT NULL CHECK (amount >= 0),
    payment_status VARCHAR(16) NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status);
CREATE INDEX IF NOT EXISTS idx_participants_bill_id ON participants(bill_id);
CREATE INDEX IF NOT EXISTS idx_participants_payment_status ON participants(payment_status);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    total_amount INTEGER NOT NULL CHECK (total_amount > 0),
    strategy TEXT NOT NULL,
    bill_date TEXT NOT NULL,
    status TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    name TEXT NOT NULL,
    amount INTEGER NOT NULL CHECK (amount >= 0),
    payment_status TEXT NOT NULL,
    position INTEGER NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(status);
CREATE INDEX IF NOT EXISTS idx_participants_bill_id ON participants(bill_id);
CREATE INDEX IF NOT EXISTS idx_participants_payment_status ON participants(payment_status);
`

var schemas = map[string]string{
	DriverPostgres: postgresSchema,
	DriverSQLite:   sqliteSchema,
}
