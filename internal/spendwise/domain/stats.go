package domain

// Stats is the account summary returned by GET /stats. Totals fall back to
// zero when a collection is empty; min/max stay null so clients can tell
// "no records" apart from "records summing to zero".
type Stats struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`

	LatestIncome  *Record `json:"latestIncome,omitempty"`
	LatestExpense *Record `json:"latestExpense,omitempty"`

	MinIncome  *float64 `json:"minIncome"`
	MaxIncome  *float64 `json:"maxIncome"`
	MinExpense *float64 `json:"minExpense"`
	MaxExpense *float64 `json:"maxExpense"`
}

// ChartData is the record window returned by GET /stats/chart.
type ChartData struct {
	ExpenseList []Record `json:"expenseList"`
	IncomeList  []Record `json:"incomeList"`
}
