package zombiezen

import (
	"context"
	"fmt"

	"github.com/revelaction/relfeat/relation"
	"github.com/revelaction/relfeat/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type InstanceStore struct {
	pool *sqlitex.Pool
}

var _ storage.InstanceRepository = (*InstanceStore)(nil)

func NewInstanceStore(pool *sqlitex.Pool) *InstanceStore {
	return &InstanceStore{pool: pool}
}

func (h *InstanceStore) Titles() ([]string, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var titles []string
	err = sqlitex.Execute(conn, "SELECT title FROM docs ORDER BY id", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			titles = append(titles, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return titles, nil
}

func (h *InstanceStore) Read(title string) ([]relation.Instance, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	found := false
	err = sqlitex.Execute(conn, "SELECT 1 FROM docs WHERE title = ?", &sqlitex.ExecOptions{
		Args: []interface{}{title},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			found = true
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("doc not found: %s", title)
	}

	insts := []relation.Instance{}
	last := int64(-1)

	// One row per feature; instances without features come with a NULL feature.
	query := `SELECT i.id, i.tokens, i.rel_type, f.feature
		FROM instances i
		JOIN docs d ON d.id = i.doc_id
		LEFT JOIN features f ON f.instance_id = i.id
		WHERE d.title = ?
		ORDER BY i.position, f.position`

	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: []interface{}{title},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id := stmt.ColumnInt64(0)
			if id != last {
				insts = append(insts, relation.Instance{
					Tokens:   stmt.ColumnText(1),
					RelType:  stmt.ColumnText(2),
					Features: []string{},
				})
				last = id
			}

			if stmt.ColumnType(3) != sqlite.TypeNull {
				cur := &insts[len(insts)-1]
				cur.Features = append(cur.Features, stmt.ColumnText(3))
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	return insts, nil
}

// Write replaces the instances stored for title. A title already stored
// keeps its position in Titles.
func (h *InstanceStore) Write(title string, insts []relation.Instance) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	docID, err := lookupDoc(conn, title)
	if err != nil {
		return err
	}

	if docID < 0 {
		err = sqlitex.Execute(conn, "INSERT INTO docs (title) VALUES (?)", &sqlitex.ExecOptions{
			Args: []interface{}{title},
		})
		if err != nil {
			return fmt.Errorf("failed to insert doc: %w", err)
		}
		docID = conn.LastInsertRowID()
	} else if err = deleteInstances(conn, docID); err != nil {
		return err
	}

	for pos, inst := range insts {
		err = sqlitex.Execute(conn, "INSERT INTO instances (doc_id, position, tokens, rel_type) VALUES (?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []interface{}{docID, pos, inst.Tokens, inst.RelType},
		})
		if err != nil {
			return fmt.Errorf("failed to insert instance: %w", err)
		}
		instID := conn.LastInsertRowID()

		for fpos, f := range inst.Features {
			err = sqlitex.Execute(conn, "INSERT INTO features (instance_id, position, feature) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
				Args: []interface{}{instID, fpos, f},
			})
			if err != nil {
				return fmt.Errorf("failed to insert feature: %w", err)
			}
		}
	}

	return nil
}

// lookupDoc returns the row id of title, or -1.
func lookupDoc(conn *sqlite.Conn, title string) (int64, error) {
	id := int64(-1)
	err := sqlitex.Execute(conn, "SELECT id FROM docs WHERE title = ?", &sqlitex.ExecOptions{
		Args: []interface{}{title},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			id = stmt.ColumnInt64(0)
			return nil
		},
	})
	if err != nil {
		return -1, fmt.Errorf("failed to look up doc %s: %w", title, err)
	}
	return id, nil
}

func deleteInstances(conn *sqlite.Conn, docID int64) error {
	for _, q := range []string{
		"DELETE FROM features WHERE instance_id IN (SELECT id FROM instances WHERE doc_id = ?)",
		"DELETE FROM instances WHERE doc_id = ?",
	} {
		if err := sqlitex.Execute(conn, q, &sqlitex.ExecOptions{Args: []interface{}{docID}}); err != nil {
			return fmt.Errorf("failed to delete instances of doc %d: %w", docID, err)
		}
	}
	return nil
}

// FeatureCounts returns the features carried by most instances, at most
// limit.
func (h *InstanceStore) FeatureCounts(limit int) ([]storage.FeatureCount, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var counts []storage.FeatureCount
	err = sqlitex.Execute(conn, "SELECT feature, COUNT(DISTINCT instance_id) AS n FROM features GROUP BY feature ORDER BY n DESC, feature LIMIT ?", &sqlitex.ExecOptions{
		Args: []interface{}{limit},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			counts = append(counts, storage.FeatureCount{
				Feature: stmt.ColumnText(0),
				Count:   stmt.ColumnInt(1),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
