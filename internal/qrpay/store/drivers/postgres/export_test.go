package postgres

import "context"

// Truncate empties every table so conformance subtests start clean.
func Truncate(ctx context.Context, s *Store) error {
	_, err := s.db.ExecContext(ctx, `TRUNCATE qr_tokens, loans, payments, audit_logs`)
	return err
}
