package chase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/foliolens/backend/src/models"
)

const (
	checkingHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #"
	creditHeader   = "Transaction Date,Post Date,Description,Category,Type,Amount,Memo"
)

func TestParseChecking(t *testing.T) {
	csv := checkingHeader + "\n" +
		`DEBIT,01/10/2024,NETFLIX.COM,-15.49,ACH_DEBIT,1200.51,` + "\n" +
		`CREDIT,01/15/2024,PAYROLL DEPOSIT,2500.00,ACH_CREDIT,3701.00,` + "\n" +
		`DEBIT,01/20/2024,ATM WITHDRAWAL,-100.00,ATM,,` + "\n"

	result, err := NewParser().ParseChecking(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, 3, result.Diagnostics.RowsTotal)
	assert.Zero(t, result.Diagnostics.RowsDropped)

	// Newest first.
	newest := result.Transactions[0]
	assert.Equal(t, "ATM WITHDRAWAL", newest.Description)
	assert.Nil(t, newest.Balance, "blank balance stays nil")

	payroll := result.Transactions[1]
	assert.Equal(t, models.AccountChecking, payroll.AccountKind)
	assert.Equal(t, "CREDIT", payroll.Details)
	assert.InDelta(t, 2500, payroll.Amount, 1e-9)
	require.NotNil(t, payroll.Balance)
	assert.InDelta(t, 3701, *payroll.Balance, 1e-9)

	netflix := result.Transactions[2]
	assert.InDelta(t, -15.49, netflix.Amount, 1e-9)
	assert.Equal(t, "ACH_DEBIT", netflix.Type)
}

func TestParseCredit(t *testing.T) {
	csv := creditHeader + "\n" +
		`01/05/2024,01/06/2024,SPOTIFY USA,Entertainment,Sale,-10.99,` + "\n" +
		`01/25/2024,01/26/2024,Payment Thank You,,Payment,200.00,` + "\n"

	result, err := NewParser().ParseCredit(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	payment := result.Transactions[0]
	assert.Equal(t, models.AccountCredit, payment.AccountKind)
	assert.Equal(t, "Payment Thank You", payment.Description)
	assert.Empty(t, payment.Category)
	assert.Nil(t, payment.Balance, "credit exports carry no balance")

	spotify := result.Transactions[1]
	assert.Equal(t, "Entertainment", spotify.Category)
	assert.InDelta(t, -10.99, spotify.Amount, 1e-9)
}

func TestParseDropsMalformedRows(t *testing.T) {
	csv := checkingHeader + "\n" +
		`DEBIT,01/10/2024,GROCERY STORE,-42.00,DEBIT,100.00,` + "\n" +
		`DEBIT,,MISSING DATE,-1.00,DEBIT,,` + "\n" +
		`DEBIT,01/11/2024,,- 1.00,DEBIT,,` + "\n" +
		`DEBIT,bad-date,BAD DATE,-1.00,DEBIT,,` + "\n" +
		`DEBIT,01/12/2024,BAD AMOUNT,abc,DEBIT,,` + "\n"

	result, err := NewParser().ParseChecking(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 5, result.Diagnostics.RowsTotal)
	assert.Equal(t, 4, result.Diagnostics.RowsDropped)
	assert.Equal(t, "GROCERY STORE", result.Transactions[0].Description)
}

func TestParseSortsNewestFirst(t *testing.T) {
	csv := creditHeader + "\n" +
		`01/05/2024,01/06/2024,FIRST,Shopping,Sale,-1.00,` + "\n" +
		`03/05/2024,03/06/2024,THIRD,Shopping,Sale,-3.00,` + "\n" +
		`02/05/2024,02/06/2024,SECOND,Shopping,Sale,-2.00,` + "\n"

	result, err := NewParser().ParseCredit(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)
	assert.Equal(t, "THIRD", result.Transactions[0].Description)
	assert.Equal(t, "SECOND", result.Transactions[1].Description)
	assert.Equal(t, "FIRST", result.Transactions[2].Description)
}
