package main

import (
	"fmt"

	"github.com/revelaction/relfeat/storage/sqlite/zombiezen"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Pool opens the instance database once per command.
type Pool struct {
	p *sqlitex.Pool
}

func (p *Pool) Open(path string) (*sqlitex.Pool, error) {
	if p.p != nil {
		return p.p, nil
	}
	pool, err := zombiezen.NewPool(path)
	if err != nil {
		return nil, err
	}
	p.p = pool
	return p.p, nil
}

func (p *Pool) Close() error {
	if p.p != nil {
		return p.p.Close()
	}
	return nil
}

// NewInstanceStore opens the database at path, creating its tables if
// needed.
func NewInstanceStore(p *Pool, path string) (*zombiezen.InstanceStore, error) {
	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}

	if err := zombiezen.CreateInstanceTables(pool); err != nil {
		return nil, fmt.Errorf("failed to create instance tables: %w", err)
	}
	return zombiezen.NewInstanceStore(pool), nil
}
