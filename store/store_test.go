package store

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/adonese/bankd/bank"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.db")
	db, err := OpenFromConfig("", path, "sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(db, log)
}

// pensionAccount is a variant the mapper knows nothing about, used to
// force the subtype insert step to fail.
type pensionAccount struct {
	bank.Base
}

func (p *pensionAccount) Type() string { return "Pension Account" }
func (p *pensionAccount) Clone() bank.Account {
	cp := *p
	return &cp
}

func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB.Get(&n, "SELECT COUNT(1) FROM "+table))
	return n
}
