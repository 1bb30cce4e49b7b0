package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/beanledger/ast"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func openedAccounts(directives []ast.Directive) []string {
	var accounts []string
	for _, d := range directives {
		if open, ok := d.(*ast.Open); ok {
			accounts = append(accounts, string(open.Account))
		}
	}
	return accounts
}

func TestLoadSingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.bean")
	write(t, mainFile, `
2024-01-01 open Assets:Checking USD
2024-01-02 * "Test"
  Assets:Checking  100.00 USD
  Equity:Opening-Balances
`)

	ldr := New()
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
	assert.Equal(t, mainFile, result.Root)
	assert.Equal(t, 0, len(result.Includes))

	// FollowIncludes behaves the same for a single file.
	ldr = New(WithFollowIncludes())
	result, err = ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
	assert.Equal(t, 0, len(result.Includes))
}

func TestLoadWithIncludeNoFollow(t *testing.T) {
	tmpDir := t.TempDir()
	write(t, filepath.Join(tmpDir, "included.bean"), `
2024-01-01 open Assets:Savings USD
`)
	mainFile := filepath.Join(tmpDir, "main.bean")
	write(t, mainFile, `
include "included.bean"

2024-01-02 open Assets:Checking USD
`)

	ldr := New()
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)

	// Only the entry file's directives, with the include preserved.
	assert.Equal(t, 2, len(result.Directives))
	include, ok := result.Directives[0].(*ast.Include)
	assert.True(t, ok)
	assert.Equal(t, "included.bean", include.Path)
	assert.Equal(t, 0, len(result.Includes))
}

func TestLoadWithIncludeFollow(t *testing.T) {
	tmpDir := t.TempDir()
	includedFile := filepath.Join(tmpDir, "included.bean")
	write(t, includedFile, `
2024-01-01 open Assets:Savings USD
2024-01-03 open Income:Salary USD
`)
	mainFile := filepath.Join(tmpDir, "main.bean")
	write(t, mainFile, `
include "included.bean"

2024-01-02 open Assets:Checking USD
`)

	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)

	// Included directives are spliced in at the include's position.
	assert.Equal(t,
		[]string{"Assets:Savings", "Income:Salary", "Assets:Checking"},
		openedAccounts(result.Directives))

	assert.Equal(t, mainFile, result.Root)
	assert.Equal(t, []string{includedFile}, result.Includes)
}

func TestLoadNestedIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	write(t, filepath.Join(tmpDir, "c.bean"), `
2024-01-03 open Expenses:Food USD
`)
	write(t, filepath.Join(tmpDir, "b.bean"), `
include "c.bean"

2024-01-02 open Assets:Savings USD
`)
	fileA := filepath.Join(tmpDir, "a.bean")
	write(t, fileA, `
include "b.bean"

2024-01-01 open Assets:Checking USD
`)

	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), fileA)
	assert.NoError(t, err)

	assert.Equal(t,
		[]string{"Expenses:Food", "Assets:Savings", "Assets:Checking"},
		openedAccounts(result.Directives))
	assert.Equal(t, 2, len(result.Includes))
}

func TestLoadGlobInclude(t *testing.T) {
	tmpDir := t.TempDir()
	monthDir := filepath.Join(tmpDir, "2024")
	assert.NoError(t, os.MkdirAll(monthDir, 0755))
	write(t, filepath.Join(monthDir, "01.bean"), `
2024-01-01 open Assets:Checking USD
`)
	write(t, filepath.Join(monthDir, "02.bean"), `
2024-02-01 open Assets:Savings USD
`)
	mainFile := filepath.Join(tmpDir, "main.bean")
	write(t, mainFile, `
include "2024/*.bean"
`)

	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)

	assert.Equal(t,
		[]string{"Assets:Checking", "Assets:Savings"},
		openedAccounts(result.Directives))
	assert.Equal(t, 2, len(result.Includes))
}

func TestLoadCircularInclude(t *testing.T) {
	tmpDir := t.TempDir()
	fileA := filepath.Join(tmpDir, "a.bean")
	fileB := filepath.Join(tmpDir, "b.bean")
	write(t, fileA, `
include "b.bean"

2024-01-01 open Assets:Checking USD
`)
	write(t, fileB, `
include "a.bean"

2024-01-02 open Assets:Savings USD
`)

	// The cycle terminates via the visited set; no error, no duplicates.
	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), fileA)
	assert.NoError(t, err)

	assert.Equal(t,
		[]string{"Assets:Savings", "Assets:Checking"},
		openedAccounts(result.Directives))
	assert.Equal(t, []string{fileB}, result.Includes)
}

func TestLoadSameFileTwice(t *testing.T) {
	tmpDir := t.TempDir()
	write(t, filepath.Join(tmpDir, "common.bean"), `
2024-01-01 open Assets:Savings USD
`)
	mainFile := filepath.Join(tmpDir, "main.bean")
	write(t, mainFile, `
include "common.bean"
include "common.bean"

2024-01-02 open Assets:Checking USD
`)

	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)

	// The second include is deduplicated.
	assert.Equal(t,
		[]string{"Assets:Savings", "Assets:Checking"},
		openedAccounts(result.Directives))
	assert.Equal(t, 1, len(result.Includes))
}

func TestLoadMissingIncludeSkipped(t *testing.T) {
	tmpDir := t.TempDir()
	mainFile := filepath.Join(tmpDir, "main.bean")
	write(t, mainFile, `
include "does-not-exist.bean"

2024-01-01 open Assets:Checking USD
`)

	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Assets:Checking"}, openedAccounts(result.Directives))
	assert.Equal(t, 0, len(result.Includes))
}

func TestLoadMissingEntryFile(t *testing.T) {
	ldr := New(WithFollowIncludes())
	_, err := ldr.Load(context.Background(), filepath.Join(t.TempDir(), "absent.bean"))
	assert.Error(t, err)
}

func TestLoadRelativePaths(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "accounts")
	assert.NoError(t, os.MkdirAll(subDir, 0755))
	write(t, filepath.Join(subDir, "savings.bean"), `
2024-01-01 open Assets:Savings USD
`)
	mainFile := filepath.Join(tmpDir, "main.bean")
	write(t, mainFile, `
include "accounts/savings.bean"

2024-01-02 open Assets:Checking USD
`)

	ldr := New(WithFollowIncludes())
	result, err := ldr.Load(context.Background(), mainFile)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
	assert.Equal(t, 1, len(result.Includes))

	// Sources are recorded relative to the entry directory so directive
	// identifiers stay stable when the tree moves.
	open := result.Directives[0].(*ast.Open)
	assert.Equal(t, filepath.Join("accounts", "savings.bean"), open.Pos.Source)
}

func TestLoadBytes(t *testing.T) {
	data := []byte(`
2024-01-01 open Assets:Checking USD
2024-01-02 * "Test"
  Assets:Checking  100.00 USD
  Equity:Opening-Balances
`)

	ldr := New()
	result, err := ldr.LoadBytes(context.Background(), "<stdin>", data)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Directives))
}
