package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stitchkit/skein/internal/cursor"
	"github.com/stitchkit/skein/internal/pattern"
)

// ErrNotFound is returned when a project name has no row.
var ErrNotFound = errors.New("project not found")

// Project is one persisted pattern workspace: the three raw parse inputs
// plus cursor state. The assembled rows are recomputed on load.
type Project struct {
	ID               string
	Name             string
	PatternText      string
	Glossary         []pattern.GlossaryEntry
	StartingStitches int
	Cursor           cursor.Position
	Fingerprint      string
}

// SaveProject upserts a project by name. New projects get a UUIDv7 ID;
// existing projects keep theirs. The stored fingerprint is recomputed from
// the raw inputs on every save.
func (s *Store) SaveProject(ctx context.Context, p *Project) error {
	if p.Name == "" {
		return fmt.Errorf("save project: name is required")
	}
	if p.ID == "" {
		p.ID = uuid.Must(uuid.NewV7()).String()
	}

	glossaryJSON, err := marshalGlossary(p.Glossary)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.Name, err)
	}

	fp, err := pattern.InputFingerprint(p.PatternText, p.Glossary, p.StartingStitches)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.Name, err)
	}
	p.Fingerprint = fp

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects
		(id, name, pattern_text, glossary, starting_stitches, cursor_row, cursor_stitch, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			pattern_text = excluded.pattern_text,
			glossary = excluded.glossary,
			starting_stitches = excluded.starting_stitches,
			cursor_row = excluded.cursor_row,
			cursor_stitch = excluded.cursor_stitch,
			fingerprint = excluded.fingerprint
	`,
		p.ID,
		p.Name,
		p.PatternText,
		glossaryJSON,
		p.StartingStitches,
		p.Cursor.Row,
		p.Cursor.Stitch,
		p.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.Name, err)
	}
	return nil
}

// LoadProject reads a project by name. Returns ErrNotFound when absent.
func (s *Store) LoadProject(ctx context.Context, name string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, pattern_text, glossary, starting_stitches, cursor_row, cursor_stitch, fingerprint
		FROM projects WHERE name = ?
	`, name)

	var p Project
	var glossaryJSON string
	err := row.Scan(&p.ID, &p.Name, &p.PatternText, &glossaryJSON,
		&p.StartingStitches, &p.Cursor.Row, &p.Cursor.Stitch, &p.Fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load project %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(glossaryJSON), &p.Glossary); err != nil {
		return nil, fmt.Errorf("load project %s: decode glossary: %w", name, err)
	}
	return &p, nil
}

// ListProjects returns all project names in lexical order.
func (s *Store) ListProjects(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return names, nil
}

// DeleteProject removes a project and, via cascade, its counters.
// Deleting an absent project is a no-op.
func (s *Store) DeleteProject(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete project %s: %w", name, err)
	}
	return nil
}

// SaveCursor updates only the cursor columns of an existing project.
func (s *Store) SaveCursor(ctx context.Context, projectID string, pos cursor.Position) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET cursor_row = ?, cursor_stitch = ? WHERE id = ?
	`, pos.Row, pos.Stitch, projectID)
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("save cursor: %w", ErrNotFound)
	}
	return nil
}

// SaveCounter upserts one counter for a project.
func (s *Store) SaveCounter(ctx context.Context, projectID string, c cursor.Counter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO counters (project_id, name, value, target, advances_cursor)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, name) DO UPDATE SET
			value = excluded.value,
			target = excluded.target,
			advances_cursor = excluded.advances_cursor
	`, projectID, c.Name, c.Value, c.Target, boolToInt(c.AdvancesCursor))
	if err != nil {
		return fmt.Errorf("save counter %s: %w", c.Name, err)
	}
	return nil
}

// LoadCounters reads all counters for a project in name order.
func (s *Store) LoadCounters(ctx context.Context, projectID string) ([]cursor.Counter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, value, target, advances_cursor
		FROM counters WHERE project_id = ? ORDER BY name
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}
	defer rows.Close()

	var counters []cursor.Counter
	for rows.Next() {
		var c cursor.Counter
		var advances int
		if err := rows.Scan(&c.Name, &c.Value, &c.Target, &advances); err != nil {
			return nil, fmt.Errorf("load counters: %w", err)
		}
		c.AdvancesCursor = advances != 0
		counters = append(counters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}
	return counters, nil
}

// marshalGlossary serializes glossary entries to canonical JSON so that
// byte-identical inputs always produce byte-identical rows on disk.
func marshalGlossary(entries []pattern.GlossaryEntry) (string, error) {
	list := make([]any, len(entries))
	for i, e := range entries {
		list[i] = map[string]any{
			"code":   e.Code,
			"title":  e.Title,
			"detail": e.Detail,
		}
	}
	data, err := pattern.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal glossary: %w", err)
	}
	return string(data), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
