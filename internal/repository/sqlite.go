package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/aroucaleo/componente-B-C/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS crises (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			nome TEXT NOT NULL UNIQUE,
			data_crise TEXT NOT NULL,
			prazo INTEGER NOT NULL,
			detalhes TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_crises_prazo ON crises(prazo);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Add(ctx context.Context, c *models.Crise) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO crises (nome, data_crise, prazo, detalhes, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.Nome, c.DataCrise, c.Prazo, c.Detalhes, c.CreatedAt,
	)
	if err != nil {
		return mapConstraintErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading inserted id: %w", err)
	}
	c.ID = id

	return nil
}

func (s *SQLiteDB) GetByID(ctx context.Context, id int64) (*models.Crise, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, nome, data_crise, prazo, detalhes, created_at
		FROM crises WHERE id = ?`, id,
	)

	var c models.Crise
	err := row.Scan(&c.ID, &c.Nome, &c.DataCrise, &c.Prazo, &c.Detalhes, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning crise: %w", err)
	}

	return &c, nil
}

func (s *SQLiteDB) ListByPrazo(ctx context.Context) ([]models.Crise, error) {
	return s.list(ctx, "prazo")
}

func (s *SQLiteDB) ListByNome(ctx context.Context) ([]models.Crise, error) {
	return s.list(ctx, "nome")
}

// list is shared by both orderings; orderBy is always a fixed column name,
// never user input.
func (s *SQLiteDB) list(ctx context.Context, orderBy string) ([]models.Crise, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, nome, data_crise, prazo, detalhes, created_at
		FROM crises ORDER BY `+orderBy+` ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying crises: %w", err)
	}
	defer rows.Close()

	crises := []models.Crise{}
	for rows.Next() {
		var c models.Crise
		if err := rows.Scan(&c.ID, &c.Nome, &c.DataCrise, &c.Prazo, &c.Detalhes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning crise: %w", err)
		}
		crises = append(crises, c)
	}

	return crises, rows.Err()
}

func (s *SQLiteDB) Update(ctx context.Context, c *models.Crise) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE crises SET nome = ?, data_crise = ?, prazo = ?, detalhes = ?
		WHERE id = ?`,
		c.Nome, c.DataCrise, c.Prazo, c.Detalhes, c.ID,
	)
	if err != nil {
		return mapConstraintErr(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteDB) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM crises WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting crise: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapConstraintErr turns a UNIQUE violation on nome into ErrDuplicateNome so
// callers can surface it as a conflict.
func mapConstraintErr(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE {
		return ErrDuplicateNome
	}
	return fmt.Errorf("error writing crise: %w", err)
}
