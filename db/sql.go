package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nemopss/expense-tracker/backend/models"
)

// Dates are stored as RFC3339 UTC text in both SQL backends so that string
// comparison and ordering match chronological order.
const timeLayout = time.RFC3339

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	is_avatar_image_set INTEGER NOT NULL DEFAULT 0,
	avatar_image TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	date TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// SQLStore implements Store over database/sql. The same queries serve
// postgres and sqlite; placeholders are written as ? and rebound to $n for
// postgres.
type SQLStore struct {
	DB     *sql.DB
	driver string
}

// NewStorage opens the primary Postgres backend and bootstraps the schema.
// A failed ping is fatal to the caller: the process must not serve traffic
// with a broken data layer.
func NewStorage(connStr string) (*SQLStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	return newSQLStore(db, "postgres")
}

// NewSQLiteStorage opens a file-backed sqlite database, creating the parent
// directory if needed.
func NewSQLiteStorage(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return newSQLStore(db, "sqlite")
}

func newSQLStore(db *sql.DB, driver string) (*SQLStore, error) {
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &SQLStore{DB: db, driver: driver}, nil
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) CreateUser(name, email, password string) (*models.User, error) {
	if len(password) < 6 {
		return nil, errPasswordTooShort
	}
	existing, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.DB.Exec(s.rebind(
		`INSERT INTO users (id, name, email, password, is_avatar_image_set, avatar_image, created_at)
		 VALUES (?, ?, ?, ?, 0, '', ?)`),
		u.ID, u.Name, u.Email, u.Password, u.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *SQLStore) GetUserByEmail(email string) (*models.User, error) {
	return s.getUser(`SELECT id, name, email, password, is_avatar_image_set, avatar_image, created_at FROM users WHERE email = ?`, email)
}

func (s *SQLStore) GetUserByID(id string) (*models.User, error) {
	return s.getUser(`SELECT id, name, email, password, is_avatar_image_set, avatar_image, created_at FROM users WHERE id = ?`, id)
}

func (s *SQLStore) getUser(query, arg string) (*models.User, error) {
	var (
		u         models.User
		avatarSet int
		createdAt string
	)
	err := s.DB.QueryRow(s.rebind(query), arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &avatarSet, &u.AvatarImage, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.IsAvatarImageSet = avatarSet != 0
	u.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLStore) SetAvatar(userID, image string) (*models.User, error) {
	res, err := s.DB.Exec(s.rebind(
		`UPDATE users SET is_avatar_image_set = 1, avatar_image = ? WHERE id = ?`),
		image, userID)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserByID(userID)
}

func (s *SQLStore) CreateTransaction(t *models.Transaction) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	_, err := s.DB.Exec(s.rebind(
		`INSERT INTO transactions (id, user_id, title, amount, description, category, transaction_type, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		t.ID, t.UserID, t.Title, t.Amount, t.Description, t.Category,
		t.TransactionType, t.Date.UTC().Format(timeLayout), t.CreatedAt.Format(timeLayout))
	return err
}

func (s *SQLStore) GetTransaction(id string) (*models.Transaction, error) {
	rows, err := s.DB.Query(s.rebind(
		`SELECT id, user_id, title, amount, description, category, transaction_type, date, created_at
		 FROM transactions WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	t, err := scanTransaction(rows)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLStore) GetTransactions(f TransactionFilter) ([]models.Transaction, error) {
	from, to, err := f.DateBounds(time.Now())
	if err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, title, amount, description, category, transaction_type, date, created_at
		 FROM transactions WHERE user_id = ?`
	args := []any{f.UserID}
	if from != nil {
		query += ` AND date >= ?`
		args = append(args, from.Format(timeLayout))
	}
	if to != nil {
		query += ` AND date <= ?`
		args = append(args, to.Format(timeLayout))
	}
	if f.Type != "" && f.Type != models.TypeAll {
		query += ` AND transaction_type = ?`
		args = append(args, f.Type)
	}
	query += ` ORDER BY date DESC, created_at DESC, id DESC`

	rows, err := s.DB.Query(s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *SQLStore) UpdateTransaction(t *models.Transaction) error {
	res, err := s.DB.Exec(s.rebind(
		`UPDATE transactions SET title = ?, amount = ?, description = ?, category = ?, transaction_type = ?, date = ?
		 WHERE id = ? AND user_id = ?`),
		t.Title, t.Amount, t.Description, t.Category, t.TransactionType,
		t.Date.UTC().Format(timeLayout), t.ID, t.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteTransaction(id, userID string) error {
	res, err := s.DB.Exec(s.rebind(
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (models.Transaction, error) {
	var (
		t               models.Transaction
		date, createdAt string
	)
	err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Amount, &t.Description,
		&t.Category, &t.TransactionType, &date, &createdAt)
	if err != nil {
		return t, err
	}
	if t.Date, err = time.Parse(timeLayout, date); err != nil {
		return t, err
	}
	if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return t, err
	}
	return t, nil
}
