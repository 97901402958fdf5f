package source

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/tree"
)

// DefaultTable is the SQLite table read when the URI names none.
const DefaultTable = "people"

// SQLite loads a tree from an adjacency table in a SQLite database.
type SQLite struct {
	Path  string
	Table string
}

func parseSQLite(u *url.URL) (*SQLite, error) {
	path := u.Path
	if u.Host != "" {
		// sqlite://relative/path.db
		path = u.Host + u.Path
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	table := u.Query().Get("table")
	if table == "" {
		table = DefaultTable
	}
	if err := errors.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	return &SQLite{Path: path, Table: table}, nil
}

type personRow struct {
	id       int64
	parentID sql.NullInt64
	rec      *tree.Record
}

func (s *SQLite) Load(ctx context.Context) (*tree.Record, error) {
	// sql.Open would create a missing database file.
	if _, err := os.Stat(s.Path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", s.Path)
	}

	conn, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA query_only=ON"); err != nil {
		return nil, fmt.Errorf("setting query_only: %w", err)
	}

	query := fmt.Sprintf(`SELECT id, parent_id, first_name, last_name, COALESCE(color, '') FROM %q ORDER BY id`, s.Table)
	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	var people []personRow
	for rows.Next() {
		p := personRow{rec: &tree.Record{}}
		if err := rows.Scan(&p.id, &p.parentID, &p.rec.FirstName, &p.rec.LastName, &p.rec.Color); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table, err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assemble(people)
}

// assemble links rows into one tree. Rows are expected in id order, which
// becomes sibling order.
func assemble(people []personRow) (*tree.Record, error) {
	if len(people) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "table is empty")
	}

	byID := make(map[int64]*tree.Record, len(people))
	for _, p := range people {
		if _, dup := byID[p.id]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate id %d", p.id)
		}
		byID[p.id] = p.rec
	}

	var root *tree.Record
	for _, p := range people {
		if !p.parentID.Valid {
			if root != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "more than one root (id %d has no parent)", p.id)
			}
			root = p.rec
			continue
		}
		parent, ok := byID[p.parentID.Int64]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "id %d references unknown parent %d", p.id, p.parentID.Int64)
		}
		parent.Children = append(parent.Children, p.rec)
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no root row (parent_id IS NULL)")
	}
	if n := root.Count(); n != len(people) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%d rows are not reachable from the root (parent cycle)", len(people)-n)
	}
	return root, nil
}

func (s *SQLite) String() string {
	return "sqlite://" + s.Path + "?table=" + s.Table
}
