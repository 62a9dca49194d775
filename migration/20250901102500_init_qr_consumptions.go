package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitQrConsumptions, downInitQrConsumptions)
}

func upInitQrConsumptions(ctx context.Context, tx *sql.Tx) error {
	// Create qr_consumptions table: the single-use ledger for QR intent
	// references. The primary key enforces consume-exactly-once.
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE qr_consumptions (
			reference VARCHAR(255) PRIMARY KEY,
			outcome VARCHAR(32) NOT NULL,
			consumed_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `CREATE INDEX idx_qr_consumptions_consumed_at ON qr_consumptions(consumed_at);`)
	if err != nil {
		return err
	}

	return nil
}

func downInitQrConsumptions(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS qr_consumptions;`)
	if err != nil {
		return err
	}

	return nil
}
