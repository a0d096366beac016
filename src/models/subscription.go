package models

// Recurrence intervals a transaction cluster can be classified into.
const (
	IntervalWeekly   = "weekly"
	IntervalBiWeekly = "bi-weekly"
	IntervalMonthly  = "monthly"
	IntervalYearly   = "yearly"
	IntervalUnknown  = "unknown"
)

// Confidence tiers summarising date consistency and amount stability.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// RecurrencePattern is the fitted cadence of a merchant/amount cluster.
type RecurrencePattern struct {
	Interval     string  `json:"interval"`
	Confidence   float64 `json:"confidence"` // fraction of gaps consistent with the median
	NextExpected int64   `json:"next_expected"`
}

// SubscriptionCandidate is one detected recurring charge. Built once per
// detection run and never mutated afterwards.
type SubscriptionCandidate struct {
	MerchantLabel   string            `json:"merchant_label"` // most frequent raw description
	NormalizedKey   string            `json:"normalized_key"`
	Transactions    []BankTransaction `json:"transactions"`
	Pattern         RecurrencePattern `json:"pattern"`
	TypicalAmount   float64           `json:"typical_amount"`
	AmountVariance  float64           `json:"amount_variance"`
	ConfidenceTier  string            `json:"confidence_tier"`
	IsActive        bool              `json:"is_active"`
	LastTransaction int64             `json:"last_transaction"` // timestamp of newest member
}
