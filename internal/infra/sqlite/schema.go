package sqlite

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Accounts: balance in smallest unit, version as the
		// optimistic-concurrency token.
		`CREATE TABLE IF NOT EXISTS accounts (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			balance      INTEGER NOT NULL DEFAULT 0 CHECK(balance >= 0),
			streak_weeks INTEGER NOT NULL DEFAULT 0 CHECK(streak_weeks >= 0),
			version      INTEGER NOT NULL DEFAULT 0,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,

		// Append-only transaction log. The sole source of truth for
		// balance history: balance == SUM(amount) per account, always.
		`CREATE TABLE IF NOT EXISTS transactions (
			id         TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			amount     INTEGER NOT NULL,
			kind       TEXT NOT NULL CHECK(kind IN ('EARN','SPEND')),
			reason     TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_account ON transactions(account_id, created_at)`,

		// Weekly task logs, one per (account, week, category).
		`CREATE TABLE IF NOT EXISTS task_logs (
			id         TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id),
			week_id    TEXT NOT NULL,
			category   TEXT NOT NULL CHECK(category IN ('SCHOOL','HOME')),
			created_at TEXT NOT NULL,
			UNIQUE(account_id, week_id, category)
		)`,

		// One row per task key in a log; keys are fixed at creation,
		// only the done flag changes.
		`CREATE TABLE IF NOT EXISTS task_items (
			log_id   TEXT NOT NULL REFERENCES task_logs(id),
			task_key TEXT NOT NULL,
			done     INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (log_id, task_key)
		)`,

		// Quiz redemption pipeline rows.
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id            TEXT PRIMARY KEY,
			account_id    TEXT NOT NULL REFERENCES accounts(id),
			challenge_id  TEXT NOT NULL,
			reward_amount INTEGER NOT NULL CHECK(reward_amount > 0),
			preview       TEXT NOT NULL DEFAULT '',
			state         TEXT NOT NULL CHECK(state IN ('IN_BAG','PENDING','APPROVED','REJECTED')),
			captured_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_account_state ON quiz_results(account_id, state)`,

		// Expense approval workflow rows.
		`CREATE TABLE IF NOT EXISTS expense_requests (
			id          TEXT PRIMARY KEY,
			account_id  TEXT NOT NULL REFERENCES accounts(id),
			amount      INTEGER NOT NULL CHECK(amount > 0),
			description TEXT NOT NULL,
			category    TEXT NOT NULL CHECK(category IN ('NEED','WANT')),
			state       TEXT NOT NULL CHECK(state IN ('PENDING','APPROVED','REJECTED')),
			sentiment   TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expense_account_state ON expense_requests(account_id, state)`,

		// Savings goals: current_amount is balance earmarked for the goal.
		`CREATE TABLE IF NOT EXISTS savings_goals (
			id             TEXT PRIMARY KEY,
			account_id     TEXT NOT NULL REFERENCES accounts(id),
			title          TEXT NOT NULL,
			target_amount  INTEGER NOT NULL CHECK(target_amount > 0),
			current_amount INTEGER NOT NULL DEFAULT 0 CHECK(current_amount >= 0),
			created_at     TEXT NOT NULL,
			updated_at     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goal_account ON savings_goals(account_id)`,

		// Perfect-week records: each (account, week) counts toward the
		// streak at most once.
		`CREATE TABLE IF NOT EXISTS perfect_weeks (
			account_id  TEXT NOT NULL REFERENCES accounts(id),
			week_id     TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (account_id, week_id)
		)`,
	}
}
