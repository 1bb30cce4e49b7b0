package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func writeLedgerFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestServiceNotLoaded(t *testing.T) {
	s := NewService("main.bean", NewTimeContext(RangeMonth))

	_, err := s.Ledger()
	assert.IsError(t, err, ErrNotLoaded)

	_, err = s.AccountDetail("Assets:Checking")
	assert.IsError(t, err, ErrNotLoaded)
}

func TestServiceLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeLedgerFile(t, dir, "main.bean", `
2024-01-01 open Assets:Checking CNY
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
`)

	s := NewService(path, NewTimeContext(RangeMonth))
	result, err := s.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, path, result.Root)

	l, err := s.Ledger()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(l.Transactions))
}

func TestServiceFailedReloadKeepsPreviousLedger(t *testing.T) {
	dir := t.TempDir()
	path := writeLedgerFile(t, dir, "main.bean", `
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
`)

	s := NewService(path, NewTimeContext(RangeMonth))
	_, err := s.Load(context.Background())
	assert.NoError(t, err)

	assert.NoError(t, os.Remove(path))
	_, err = s.Load(context.Background())
	assert.Error(t, err)

	l, err := s.Ledger()
	assert.NoError(t, err)
	assert.Equal(t, 1, len(l.Transactions))
}

func TestServiceReloadSwapsLedger(t *testing.T) {
	dir := t.TempDir()
	path := writeLedgerFile(t, dir, "main.bean", `
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
`)

	s := NewService(path, NewTimeContext(RangeMonth))
	_, err := s.Load(context.Background())
	assert.NoError(t, err)

	before, _ := s.Ledger()

	writeLedgerFile(t, dir, "main.bean", `
2024-01-10 * "Lunch"
  Assets:Checking  -20.00 CNY
  Expenses:Food
2024-01-11 * "Dinner"
  Assets:Checking  -30.00 CNY
  Expenses:Food
`)
	_, err = s.Load(context.Background())
	assert.NoError(t, err)

	after, _ := s.Ledger()
	assert.Equal(t, 2, len(after.Transactions))

	// The previously returned ledger is untouched by the reload.
	assert.Equal(t, 1, len(before.Transactions))
}

func TestServiceTimeContext(t *testing.T) {
	s := NewService("main.bean", NewTimeContext(RangeMonth))
	assert.Equal(t, RangeMonth, s.TimeContext().Range)

	s.SetRange(RangeYear)
	assert.Equal(t, RangeYear, s.TimeContext().Range)
}

func TestServiceDetailNotFound(t *testing.T) {
	dir := t.TempDir()
	path := writeLedgerFile(t, dir, "main.bean", `
2024-01-01 open Assets:Checking CNY
`)

	s := NewService(path, NewTimeContext(RangeMonth))
	_, err := s.Load(context.Background())
	assert.NoError(t, err)

	_, err = s.AccountDetail("Assets:Nope")
	assert.Error(t, err)
	assert.Equal(t, CodeAccountNotFound, CodeOf(err))

	_, err = s.TransactionDetail("txn-nope:1:00000000")
	assert.Error(t, err)
	assert.Equal(t, CodeTransactionNotFound, CodeOf(err))

	_, _, err = s.AccountTimeline("Assets:Nope", 0, 0)
	assert.Equal(t, CodeAccountNotFound, CodeOf(err))
}
