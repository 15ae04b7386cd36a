package db

import (
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(50) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'USER',
		wallet_balance BIGINT NOT NULL DEFAULT 0,
		loyalty_points BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uniq_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS tickets (
		ticket_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		account_id BIGINT NOT NULL,
		source VARCHAR(50) NOT NULL,
		destination VARCHAR(50) NOT NULL,
		passengers INT NOT NULL,
		fare BIGINT NOT NULL,
		travel_date DATE NOT NULL,
		booking_date DATETIME NOT NULL,
		cancelled BOOLEAN NOT NULL DEFAULT FALSE,
		distance_km DOUBLE NOT NULL DEFAULT 0,
		KEY idx_account (account_id),
		CONSTRAINT fk_ticket_account FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS metro_cards (
		card_number BIGINT AUTO_INCREMENT PRIMARY KEY,
		account_id BIGINT NOT NULL,
		balance BIGINT NOT NULL DEFAULT 0,
		auto_recharge_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		min_balance_threshold BIGINT NOT NULL DEFAULT 5000,
		UNIQUE KEY uniq_account (account_id),
		CONSTRAINT fk_card_account FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS station_locations (
		name VARCHAR(50) PRIMARY KEY,
		x DOUBLE NOT NULL DEFAULT 0,
		y DOUBLE NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS wallet_history (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		account_id BIGINT NOT NULL,
		amount BIGINT NOT NULL,
		type VARCHAR(10) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_account (account_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		account_id BIGINT NOT NULL,
		message VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		KEY idx_account (account_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS outbox_events (
		id CHAR(36) PRIMARY KEY,
		event_type VARCHAR(50) NOT NULL,
		payload JSON NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'new',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_status_created (status, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Station seed mirrors the network the fare calculator was tuned on.
// Coordinates are normalized units; distance = euclidean * 100 km.
var stationSeed = []struct {
	name string
	x, y float64
}{
	{"rajiv chowk", 0.00, 0.00},
	{"connaught place", 0.01, 0.02},
	{"kashmere gate", 0.03, 0.06},
	{"central secretariat", 0.02, -0.03},
	{"hauz khas", -0.04, -0.09},
	{"dwarka", -0.15, -0.02},
	{"noida city centre", 0.14, 0.05},
	{"vaishali", 0.12, 0.09},
}

// Setup creates all tables if absent and seeds the station map.
// It is idempotent and runs once at process start.
func Setup(db *sql.DB) error {
	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, s := range stationSeed {
		if _, err := db.Exec(
			`INSERT IGNORE INTO station_locations (name, x, y) VALUES (?,?,?)`,
			s.name, s.x, s.y,
		); err != nil {
			return fmt.Errorf("seed station %s: %w", s.name, err)
		}
	}
	return nil
}
