package mockapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Adda-Baaj/tour-of-heroes/internal/domain"
	_ "modernc.org/sqlite"
)

type sqliteRepository struct {
	db *sql.DB
}

// OpenSQLiteRepository opens (or creates) the heroes database at path.
func OpenSQLiteRepository(path string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// id assignment in Create is read-then-write.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	r := &sqliteRepository{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *sqliteRepository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS heroes (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := r.db.Exec(m); err != nil {
			return fmt.Errorf("migrate heroes table: %w", err)
		}
	}
	return nil
}

func (r *sqliteRepository) List(ctx context.Context) ([]domain.Hero, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM heroes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Hero, 0)
	for rows.Next() {
		var h domain.Hero
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, fmt.Errorf("scan hero: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *sqliteRepository) Get(ctx context.Context, id int) (domain.Hero, error) {
	var h domain.Hero
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM heroes WHERE id = ?`, id).Scan(&h.ID, &h.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hero{}, ErrNotFound
	}
	if err != nil {
		return domain.Hero{}, fmt.Errorf("get hero %d: %w", id, err)
	}
	return h, nil
}

func (r *sqliteRepository) Create(ctx context.Context, name string) (domain.Hero, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Hero{}, fmt.Errorf("begin create: %w", err)
	}
	defer tx.Rollback()

	var maxID sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(id) FROM heroes`).Scan(&maxID); err != nil {
		return domain.Hero{}, fmt.Errorf("next hero id: %w", err)
	}
	id := firstHeroID
	if maxID.Valid && int(maxID.Int64) >= id {
		id = int(maxID.Int64) + 1
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO heroes (id, name) VALUES (?, ?)`, id, name); err != nil {
		return domain.Hero{}, fmt.Errorf("insert hero: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Hero{}, fmt.Errorf("commit create: %w", err)
	}
	return domain.Hero{ID: id, Name: name}, nil
}

func (r *sqliteRepository) Put(ctx context.Context, hero domain.Hero) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin put: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM heroes WHERE id = ?`, hero.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("lookup hero %d: %w", hero.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO heroes (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		hero.ID, hero.Name,
	); err != nil {
		return false, fmt.Errorf("upsert hero %d: %w", hero.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit put: %w", err)
	}
	return exists == 0, nil
}

func (r *sqliteRepository) Update(ctx context.Context, hero domain.Hero) error {
	res, err := r.db.ExecContext(ctx, `UPDATE heroes SET name = ? WHERE id = ?`, hero.Name, hero.ID)
	if err != nil {
		return fmt.Errorf("update hero %d: %w", hero.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update hero %d: %w", hero.ID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM heroes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete hero %d: %w", id, err)
	}
	return nil
}

func (r *sqliteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM heroes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count heroes: %w", err)
	}
	return n, nil
}

func (r *sqliteRepository) Close() error { return r.db.Close() }
