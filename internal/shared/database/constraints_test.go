package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The migration runs on every boot, so each statement has to be re-runnable:
// either IF NOT EXISTS or a duplicate_object guard. Postgres has no
// ADD CONSTRAINT IF NOT EXISTS, that spelling is a syntax error.
func TestConstraintStatementsAreRerunnable(t *testing.T) {
	for _, stmt := range constraintStatements {
		assert.NotContains(t, stmt, "ADD CONSTRAINT IF NOT EXISTS")

		guarded := strings.Contains(stmt, "IF NOT EXISTS") ||
			strings.Contains(stmt, "duplicate_object")
		assert.True(t, guarded, "statement is not idempotent: %s", stmt)
	}
}

func TestSeatBoundsConstraintPresent(t *testing.T) {
	found := false
	for _, stmt := range constraintStatements {
		if strings.Contains(stmt, "seats_within_capacity") {
			found = true
			assert.Contains(t, stmt, "available_seats >= 0")
			assert.Contains(t, stmt, "available_seats <= total_capacity")
		}
	}
	assert.True(t, found)
}
