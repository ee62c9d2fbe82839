package database

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Accounts Directory
CREATE TABLE IF NOT EXISTS accounts (
    account_id VARCHAR(64) PRIMARY KEY,
    display_name VARCHAR(64) NOT NULL DEFAULT '',
    base_revision INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Profile Documents (JSONB, one row per account/profile pair)
CREATE TABLE IF NOT EXISTS profiles (
    account_id VARCHAR(64) NOT NULL REFERENCES accounts(account_id) ON DELETE CASCADE,
    profile_id VARCHAR(32) NOT NULL,
    document JSONB NOT NULL,
    rvn INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (account_id, profile_id)
);

CREATE INDEX IF NOT EXISTS idx_profiles_updated_at ON profiles (updated_at);
`
