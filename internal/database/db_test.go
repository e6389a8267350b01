package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSNEnablesClientFoundRows(t *testing.T) {
	got := dsn("root", "secret", "localhost", "3306", "accounts")
	assert.Equal(t,
		"root:secret@tcp(localhost:3306)/accounts?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

func TestDSNOmitsEmptyPassword(t *testing.T) {
	got := dsn("root", "", "db", "3307", "accounts")
	assert.Equal(t,
		"root@tcp(db:3307)/accounts?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}
