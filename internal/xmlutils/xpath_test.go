package xmlutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
  <BkToCstmrStmt>
    <Stmt>
      <Ntry>
        <Amt Ccy="BRL">10.00</Amt>
        <CdtDbtInd>CRDT</CdtDbtInd>
        <AddtlNtryInf>  first
          entry </AddtlNtryInf>
      </Ntry>
      <Ntry>
        <Amt Ccy="BRL">2.50</Amt>
        <CdtDbtInd>DBIT</CdtDbtInd>
      </Ntry>
    </Stmt>
  </BkToCstmrStmt>
</Document>`

func TestGetOrEmpty(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		index    int
		expected string
	}{
		{"valid index returns value", []string{"a", "b", "c"}, 1, "b"},
		{"index out of bounds returns empty", []string{"a", "b"}, 5, ""},
		{"negative index returns empty", []string{"a"}, -1, ""},
		{"nil slice returns empty", nil, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetOrEmpty(tt.slice, tt.index))
		})
	}
}

func TestParseAndExtract(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	ok, err := Has(root, XPathStatement)
	require.NoError(t, err)
	assert.True(t, ok)

	amounts, err := ExtractFromXML(root, "//Ntry/Amt")
	require.NoError(t, err)
	assert.Equal(t, []string{"10.00", "2.50"}, amounts)

	entries, err := Nodes(root, XPathEntries)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first entry", FirstOf(entries[0], XPathRemittanceInfo, XPathAddEntryInfo))
	assert.Equal(t, "", FirstOf(entries[1], XPathRemittanceInfo, XPathAddEntryInfo))
	assert.Equal(t, IndicatorDebit, FirstOf(entries[1], XPathCreditDebitInd))
}

func TestParseXML_Invalid(t *testing.T) {
	_, err := ParseXML(strings.NewReader("<open>"))
	assert.Error(t, err)
}

func TestCompileError(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	_, err = ExtractFromXML(root, "//[")
	assert.Error(t, err)
	_, err = Has(root, "//[")
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "PIX to IBAN ok", CleanText("  PIX\tto CH9300762011623852957\n ok "))
	assert.Equal(t, "", CleanText(" \n "))
}
