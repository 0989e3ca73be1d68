package model

import "github.com/google/uuid"

// assignID fills a zero primary key before insert. IDs are generated in Go so
// the same schema works on SQLite and PostgreSQL (no gen_random_uuid()).
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
