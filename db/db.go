package db

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nemopss/expense-tracker/backend/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")

	errPasswordTooShort = errors.New("password must be at least 6 characters")
)

// Store is the persistence contract shared by the postgres, sqlite and
// in-memory backends. Lookups by email/id return (nil, nil) when the record
// is absent; mutations on missing records return ErrNotFound.
type Store interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	SetAvatar(userID, image string) (*models.User, error)

	CreateTransaction(t *models.Transaction) error
	GetTransaction(id string) (*models.Transaction, error)
	GetTransactions(f TransactionFilter) ([]models.Transaction, error)
	UpdateTransaction(t *models.Transaction) error
	DeleteTransaction(id, userID string) error

	Close() error
}

// TransactionFilter selects the transactions of one user. Frequency is a
// day count ("7", "30", "365"), the sentinel "custom" (explicit StartDate/
// EndDate range, either side optional) or empty for no date filter. Type is
// "all"/empty for no type filter, otherwise a canonical transaction type.
type TransactionFilter struct {
	UserID    string
	Frequency string
	StartDate string
	EndDate   string
	Type      string
}

// DateBounds resolves the filter's date window relative to now. A nil bound
// means that side is unbounded. Both bounds are inclusive.
func (f TransactionFilter) DateBounds(now time.Time) (from, to *time.Time, err error) {
	switch f.Frequency {
	case "":
		return nil, nil, nil
	case "custom":
		if f.StartDate != "" {
			d, err := ParseDate(f.StartDate)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid startDate: %w", err)
			}
			d = startOfDay(d)
			from = &d
		}
		if f.EndDate != "" {
			d, err := ParseDate(f.EndDate)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid endDate: %w", err)
			}
			d = endOfDay(d)
			to = &d
		}
		return from, to, nil
	default:
		days, err := strconv.Atoi(f.Frequency)
		if err != nil || days <= 0 {
			return nil, nil, fmt.Errorf("invalid frequency %q", f.Frequency)
		}
		lower := now.UTC().AddDate(0, 0, -days)
		upper := now.UTC()
		return &lower, &upper, nil
	}
}

// ParseDate accepts the client's "2006-01-02" form or full RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return t.UTC(), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

// matches reports whether tx satisfies the resolved window and type filter.
// Shared by the memory backend; the SQL backends express the same predicate
// in their WHERE clause.
func matches(tx models.Transaction, from, to *time.Time, typ string) bool {
	if from != nil && tx.Date.Before(*from) {
		return false
	}
	if to != nil && tx.Date.After(*to) {
		return false
	}
	if typ != "" && typ != models.TypeAll && tx.TransactionType != typ {
		return false
	}
	return true
}
