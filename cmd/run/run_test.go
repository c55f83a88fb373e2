package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/fillcash/cmd/root"
	"fjacquet/fillcash/internal/container"
	"fjacquet/fillcash/internal/logging"
)

func setup(t *testing.T) (*container.Container, *logging.MockLogger, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	content := fmt.Sprintf(`bankname: itau
cards:
  - bank: nubank
    name: roxinho
    last_digits: "1234"
    due_day: 7
fixed_income:
  - day: 5
    amount: 5000
    description: Salário
paths:
  statements_dir: %s
  outputs_dir: %s
  bills_file: %s
`, filepath.Join(dir, "statements"), filepath.Join(dir, "outputs"), filepath.Join(dir, "statements", "future_card_bills.yaml"))
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	log := logging.NewMockLogger()
	c, err := root.Setup(path, "", container.WithLogger(log),
		container.WithClock(func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	return c, log, dir
}

func writeStatement(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "statements", "itau", "file.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte("Data;Histórico;Valor\n05/01/2024;SALARIO;5.000,00\n"), 0600))
}

func TestExecute(t *testing.T) {
	c, log, dir := setup(t)
	writeStatement(t, dir)

	require.NoError(t, Execute(context.Background(), c))
	assert.FileExists(t, filepath.Join(dir, "outputs", "current_account_statement.csv"))
	assert.FileExists(t, filepath.Join(dir, "outputs", "silver_statements.csv"))
	assert.True(t, log.HasEntry("INFO", "Pipeline finished successfully"))
}

func TestExecute_StopsOnExtractError(t *testing.T) {
	c, log, dir := setup(t)

	assert.Error(t, Execute(context.Background(), c))
	assert.NoFileExists(t, filepath.Join(dir, "outputs", "silver_statements.csv"))
	assert.False(t, log.HasEntry("INFO", "Pipeline finished successfully"))
}
