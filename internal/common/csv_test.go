package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/fillcash/internal/logging"
	"fjacquet/fillcash/internal/models"
)

func TestReadTransactions(t *testing.T) {
	input := `date|description|amount|inflow|outflow
2024-03-01|SALARIO|5000.00|5000.00|0.00
2024-03-02|ALUGUEL|-1800.00|0.00|1800.00
not-a-date|BROKEN|1.00|1.00|0.00
2024-03-03|PIX|abc|0|0
2024-03-04|DERIVED|-12.50||
`
	logger := logging.NewMockLogger()
	txs, dropped, err := ReadTransactions(strings.NewReader(input), logger)
	require.NoError(t, err)

	assert.Equal(t, 2, dropped)
	require.Len(t, txs, 3)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), txs[0].Date)
	assert.True(t, txs[1].Outflow.Equal(decimal.NewFromInt(1800)))
	assert.True(t, txs[2].Outflow.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, txs[2].Inflow.IsZero())
	assert.Len(t, logger.EntriesByLevel("DEBUG"), 2)
}

func TestReadTransactions_RejectsNegativeFlows(t *testing.T) {
	input := "date|description|amount|inflow|outflow\n2024-03-01|X|-5|0|-5\n"
	txs, dropped, err := ReadTransactions(strings.NewReader(input), logging.NewMockLogger())
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Equal(t, 1, dropped)
}

func TestReadTransactions_Empty(t *testing.T) {
	for _, input := range []string{"", "\n", "date|description|amount|inflow|outflow\n"} {
		txs, dropped, err := ReadTransactions(strings.NewReader(input), logging.NewMockLogger())
		require.NoError(t, err)
		assert.Empty(t, txs)
		assert.Zero(t, dropped)
	}
}

func TestWriteThenReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs", "current_account_statement.csv")
	txs := []models.Transaction{
		models.NewTransaction(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "MERCADO | CENTRO", decimal.RequireFromString("-89.9")),
		models.NewTransaction(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), "PIX RECEBIDO", decimal.NewFromInt(300)),
	}

	require.NoError(t, WriteTransactionsFile(path, txs, logging.NewMockLogger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "date|description|amount|inflow|outflow", lines[0])
	assert.Equal(t, "2024-01-06|PIX RECEBIDO|300.00|300.00|0.00", lines[2])

	back, err := ReadTransactionsFile(path, logging.NewMockLogger())
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, "MERCADO | CENTRO", back[0].Description)
	assert.True(t, back[0].Outflow.Equal(decimal.RequireFromString("89.9")))
}

func TestReadTransactionsFile_Missing(t *testing.T) {
	logger := logging.NewMockLogger()
	txs, err := ReadTransactionsFile(filepath.Join(t.TempDir(), "none.csv"), logger)
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Len(t, logger.EntriesByLevel("WARN"), 1)
}

func TestWriteTransactionsFile_Nil(t *testing.T) {
	assert.Error(t, WriteTransactionsFile(filepath.Join(t.TempDir(), "x.csv"), nil, logging.NewMockLogger()))
}

func TestWriteRecords(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRecords(&buf, [][]string{{"date", "balance"}, {"2024-01-01", "=0+B2-C2"}}, '|')
	require.NoError(t, err)
	assert.Equal(t, "date|balance\n2024-01-01|=0+B2-C2\n", buf.String())
}
