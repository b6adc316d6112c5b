package model

import "github.com/google/uuid"

// assignID выдаёт UUID новой записи на стороне приложения,
// чтобы схема не зависела от gen_random_uuid() и работала и на SQLite.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
