package devserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/flashdeck/flashdeck-go/internal/devserver/migrations"
)

// ErrNotFound is returned by store lookups for absent rows.
var ErrNotFound = errors.New("not found")

// Store persists dev-server state in an embedded sqlite database.
// Use ":memory:" as DSN for a throwaway instance.
type Store struct {
	db *sql.DB
}

// OpenStore opens the database and applies the embedded migrations.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("applying migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateUser(ctx context.Context, u *User, passHash string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, user_name, pass_hash) VALUES (?, ?, ?)`,
		u.ID, u.UserName, passHash)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) userByQuery(ctx context.Context, query, arg string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.UserName, &u.passHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM decks WHERE author_id = ?`, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	u.DeckIDs = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		u.DeckIDs = append(u.DeckIDs, id)
	}
	return u, rows.Err()
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.userByQuery(ctx, `SELECT id, user_name, pass_hash FROM users WHERE id = ?`, id)
}

func (s *Store) GetUserByName(ctx context.Context, name string) (*User, error) {
	return s.userByQuery(ctx, `SELECT id, user_name, pass_hash FROM users WHERE user_name = ?`, name)
}

func (s *Store) UpdateUserName(ctx context.Context, id, name string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET user_name = ? WHERE id = ?`, name, id)
	return err
}

func (s *Store) UpdateUserPassword(ctx context.Context, id, passHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET pass_hash = ? WHERE id = ?`, passHash, id)
	return err
}

const deckColumns = `id, author_id, name, description, image_path, tags, cards_count_studied`

func (s *Store) scanDeck(ctx context.Context, row *sql.Row) (*Deck, error) {
	d := &Deck{}
	var tags, studied string
	err := row.Scan(&d.ID, &d.AuthorID, &d.Name, &d.Description, &d.ImagePath, &tags, &studied)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(studied), &d.CardsCountStudied); err != nil {
		return nil, err
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE deck_id = ?`, d.ID).Scan(&d.CardsCount)
	return d, err
}

func (s *Store) GetDeck(ctx context.Context, id string) (*Deck, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = ?`, id)
	return s.scanDeck(ctx, row)
}

func (s *Store) CreateDeck(ctx context.Context, d *Deck) error {
	tags, err := json.Marshal(d.Tags)
	if err != nil {
		return err
	}
	studied, err := json.Marshal(d.CardsCountStudied)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decks (`+deckColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.AuthorID, d.Name, d.Description, d.ImagePath, string(tags), string(studied))
	if err != nil {
		return fmt.Errorf("failed to insert deck: %w", err)
	}
	return nil
}

func (s *Store) SaveDeck(ctx context.Context, d *Deck) error {
	tags, err := json.Marshal(d.Tags)
	if err != nil {
		return err
	}
	studied, err := json.Marshal(d.CardsCountStudied)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE decks SET name = ?, description = ?, image_path = ?, tags = ?, cards_count_studied = ? WHERE id = ?`,
		d.Name, d.Description, d.ImagePath, string(tags), string(studied), d.ID)
	return err
}

func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	return err
}

func (s *Store) listDecks(ctx context.Context, query string, args ...any) ([]*Deck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	decks := make([]*Deck, 0, len(ids))
	for _, id := range ids {
		d, err := s.GetDeck(ctx, id)
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// ListDecks returns one page of decks ordered by name, optionally filtered by
// a case-insensitive name substring, plus the total match count.
func (s *Store) ListDecks(ctx context.Context, search string, offset, limit int) ([]*Deck, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decks WHERE name LIKE ?`, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	decks, err := s.listDecks(ctx,
		`SELECT id FROM decks WHERE name LIKE ? ORDER BY name LIMIT ? OFFSET ?`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return decks, total, nil
}

func (s *Store) ListDecksByAuthor(ctx context.Context, authorID string) ([]*Deck, error) {
	return s.listDecks(ctx, `SELECT id FROM decks WHERE author_id = ? ORDER BY name`, authorID)
}

const cardColumns = `id, deck_id, question, answer, image_path, time_to_repeat`

func scanCard(row *sql.Row) (*Card, error) {
	c := &Card{}
	var repeat string
	err := row.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.ImagePath, &repeat)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(repeat), &c.TimeToRepeat); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) GetCard(ctx context.Context, deckID, cardID string) (*Card, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE deck_id = ? AND id = ?`, deckID, cardID)
	return scanCard(row)
}

func (s *Store) CreateCard(ctx context.Context, c *Card) error {
	repeat, err := json.Marshal(c.TimeToRepeat)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.DeckID, c.Question, c.Answer, c.ImagePath, string(repeat))
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

func (s *Store) SaveCard(ctx context.Context, c *Card) error {
	repeat, err := json.Marshal(c.TimeToRepeat)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE cards SET question = ?, answer = ?, image_path = ?, time_to_repeat = ? WHERE id = ?`,
		c.Question, c.Answer, c.ImagePath, string(repeat), c.ID)
	return err
}

func (s *Store) DeleteCard(ctx context.Context, deckID, cardID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = ? AND id = ?`, deckID, cardID)
	return err
}

func (s *Store) ListCards(ctx context.Context, deckID string) ([]*Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE deck_id = ? ORDER BY rowid`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*Card{}
	for rows.Next() {
		c := &Card{}
		var repeat string
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.ImagePath, &repeat); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(repeat), &c.TimeToRepeat); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
