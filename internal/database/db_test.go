package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/ticket-booking/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{DBUser: "tickets", DBHost: "db", DBPort: "3306", DBName: "audit"}
	assert.Equal(t, "tickets@tcp(db:3306)/audit?charset=utf8mb4&parseTime=true&loc=UTC", DSN(cfg))

	cfg.DBPass = "s3cret"
	assert.Equal(t, "tickets:s3cret@tcp(db:3306)/audit?charset=utf8mb4&parseTime=true&loc=UTC", DSN(cfg))
}
