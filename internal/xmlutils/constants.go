package xmlutils

// XPath expressions used for CAMT.053 XML parsing.
// XPathStatement and XPathEntries are absolute; the entry fields below are
// relative to an Ntry node.
const (
	XPathStatement = "//BkToCstmrStmt/Stmt"
	XPathEntries   = "//Ntry"

	// Basic entry data
	XPathAmount         = "Amt"
	XPathCreditDebitInd = "CdtDbtInd"
	XPathBookingDate    = "BookgDt/Dt"
	XPathBookingDateTm  = "BookgDt/DtTm"
	XPathValueDate      = "ValDt/Dt"

	// Remittance and party information, tried in this order for a description
	XPathRemittanceInfo = "NtryDtls/TxDtls/RmtInf/Ustrd"
	XPathAddTxInfo      = "NtryDtls/TxDtls/AddtlTxInf"
	XPathAddEntryInfo   = "AddtlNtryInf"
	XPathCreditorName   = "NtryDtls/TxDtls/RltdPties/Cdtr/Nm"
	XPathDebtorName     = "NtryDtls/TxDtls/RltdPties/Dbtr/Nm"
)

// Credit/debit indicator values of CdtDbtInd
const (
	IndicatorCredit = "CRDT"
	IndicatorDebit  = "DBIT"
)
