package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/finvero/corebank/internal/domain/model"
)

// newTestDB opens an isolated in-memory store carrying the service schema.
// The tables are created directly because the model DDL defaults are
// PostgreSQL-specific; the sqlite driver ignores row-locking clauses, so the
// transactional semantics under test are otherwise identical.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'client',
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			balance NUMERIC NOT NULL DEFAULT 0,
			user_id INTEGER NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE credit_cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			limit_credit NUMERIC NOT NULL DEFAULT 1,
			balance NUMERIC NOT NULL DEFAULT 0,
			user_id INTEGER NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE merchants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			status BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE encrypted_cards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			card_number_hash TEXT NOT NULL,
			card_type TEXT NOT NULL DEFAULT '',
			last_four TEXT NOT NULL DEFAULT '',
			expiry_date DATETIME,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE credit_transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			merchant_id INTEGER NOT NULL,
			card_id INTEGER NOT NULL,
			amount NUMERIC NOT NULL,
			status TEXT NOT NULL,
			otp_code TEXT NOT NULL DEFAULT '',
			otp_verified BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE ledger_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account_id INTEGER NOT NULL,
			entry_type TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			balance_after NUMERIC NOT NULL,
			idempotency_key TEXT UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// fixtures is the standing test population: two users with funded accounts,
// a credit line with outstanding debt for the first, and an active merchant.
type fixtures struct {
	userA    model.User
	userB    model.User
	accountA model.Account
	accountB model.Account
	cardA    model.CreditCard
	merchant model.Merchant
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()

	f := fixtures{
		userA: model.User{Username: "user1", Role: model.RoleClient, FullName: "Usuario Uno", Email: "user1@example.com"},
		userB: model.User{Username: "user2", Role: model.RoleClient, FullName: "Usuario Dos", Email: "user2@example.com"},
	}
	require.NoError(t, db.Create(&f.userA).Error)
	require.NoError(t, db.Create(&f.userB).Error)

	f.accountA = model.Account{Balance: decimal.NewFromInt(1000), UserID: f.userA.ID}
	f.accountB = model.Account{Balance: decimal.NewFromInt(1000), UserID: f.userB.ID}
	require.NoError(t, db.Create(&f.accountA).Error)
	require.NoError(t, db.Create(&f.accountB).Error)

	f.cardA = model.CreditCard{
		CreditLimit: decimal.NewFromInt(5000),
		Balance:     decimal.NewFromInt(200),
		UserID:      f.userA.ID,
	}
	require.NoError(t, db.Create(&f.cardA).Error)

	f.merchant = model.Merchant{Name: "Tienda A", Active: true}
	require.NoError(t, db.Create(&f.merchant).Error)

	return f
}

func reloadAccount(t *testing.T, db *gorm.DB, id int64) model.Account {
	t.Helper()
	var account model.Account
	require.NoError(t, db.First(&account, id).Error)
	return account
}

func reloadCreditCard(t *testing.T, db *gorm.DB, id int64) model.CreditCard {
	t.Helper()
	var card model.CreditCard
	require.NoError(t, db.First(&card, id).Error)
	return card
}
