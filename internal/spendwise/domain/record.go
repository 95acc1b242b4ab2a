package domain

import (
	"time"

	"github.com/spendwise-app/spendwise/pkg/idx"
)

// Date is a civil date, rendered "YYYY-MM-DD" on the wire and in the store.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// DateOf truncates a timestamp to its civil date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Record is one expense or income entry. Amounts are whole currency cents.
// Records always belong to exactly one account and every store access is
// scoped by OwnerID.
type Record struct {
	ID          idx.ID `json:"id"`
	OwnerID     idx.ID `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        Date   `json:"date"`
	Amount      int64  `json:"amount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Kind separates the two record collections in the store.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)
