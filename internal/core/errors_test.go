package core

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStoreError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantRow bool
	}{
		{"check violation", &pgconn.PgError{Code: "23514"}, true},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, true},
		{"value too long", &pgconn.PgError{Code: "22001"}, true},
		{"out of memory", &pgconn.PgError{Code: "53200"}, false},
		{"disk full", &pgconn.PgError{Code: "53100"}, false},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, false},
		{"connection failure", &pgconn.PgError{Code: "08006"}, false},
		{"empty code", &pgconn.PgError{}, false},
		{"context cancelled", context.Canceled, false},
		{"plain error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStoreError("upsert product", "S1", tt.err)

			var rowErr *RowError
			assert.Equal(t, tt.wantRow, errors.As(err, &rowErr))
			assert.Equal(t, !tt.wantRow, IsSystemError(err))
			assert.ErrorIs(t, err, tt.err)
			if tt.wantRow {
				assert.Equal(t, "S1", rowErr.Key)
			}
		})
	}
}
