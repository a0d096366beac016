package models

// Bank account layouts recognised by the Chase parser.
const (
	AccountChecking = "checking"
	AccountCredit   = "credit"
)

// BankTransaction is one row of a Chase checking or credit card export.
// Amount keeps the statement's sign: credits positive, debits negative.
type BankTransaction struct {
	Date        string   `json:"date"` // posting date as printed, MM/DD/YYYY
	Timestamp   int64    `json:"timestamp"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Type        string   `json:"type"`              // statement "Type" column (ACH_DEBIT, Sale, ...)
	Balance     *float64 `json:"balance"`           // running balance, checking only
	AccountKind string   `json:"account_kind"`      // "checking" or "credit"
	Details     string   `json:"details,omitempty"` // CREDIT/DEBIT marker, checking only
	Category    string   `json:"category,omitempty"`
}
