package diagnosis

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql" // mirror databases in the field are MySQL/MariaDB

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// MirrorStore reads the external telemetry database that some vendor
// management systems replicate ONU state into. For those vendors the OLT
// itself is not queried live: the mirror already holds the last down reason
// per subscriber serial.
type MirrorStore struct {
	db *sql.DB
}

// NewMirrorStore wraps an existing pool owned by the caller.
func NewMirrorStore(db *sql.DB) *MirrorStore {
	return &MirrorStore{db: db}
}

// OpenMirror opens a MySQL mirror from a DSN.
func OpenMirror(dsn string) (*MirrorStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open telemetry mirror: %w", err)
	}
	return &MirrorStore{db: db}, nil
}

// Close releases the pool.
func (s *MirrorStore) Close() error {
	return s.db.Close()
}

// mirrorCauseMap translates the mirror's down-reason enum to the same
// canonical codes the live-alarm path produces.
var mirrorCauseMap = map[string]string{
	"los":         "GPON_LOS",
	"losi":        "GPON_LOSI",
	"lofi":        "GPON_LOFI",
	"dying-gasp":  "GPON_DYING_GASP",
	"dying_gasp":  "GPON_DYING_GASP",
	"power-off":   "GPON_DYING_GASP",
	"sf":          "GPON_SF",
	"sd":          "GPON_SD",
	"deactivated": "GPON_DF",
	"auth-fail":   "GPON_AUTH_FAIL",
}

// LastDownCause returns the canonical alarm code and the raw enum for one
// subscriber serial. A serial the mirror has never seen maps to
// types.ErrNotFound.
func (s *MirrorStore) LastDownCause(ctx context.Context, serial string) (code, raw string, err error) {
	const query = `
		SELECT down_cause
		FROM onu_status
		WHERE serial = ?
		ORDER BY updated_at DESC
		LIMIT 1`

	var cause sql.NullString
	err = s.db.QueryRowContext(ctx, query, strings.TrimSpace(serial)).Scan(&cause)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("serial %s in telemetry mirror: %w", serial, types.ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("telemetry mirror query: %w", err)
	}
	if !cause.Valid || cause.String == "" {
		return "", "", nil
	}

	raw = cause.String
	if mapped, ok := mirrorCauseMap[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return mapped, raw, nil
	}
	return "", raw, nil
}
