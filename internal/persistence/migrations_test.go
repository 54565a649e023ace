package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// Column defaults in the schema must spell the same values the domain
// enums persist, otherwise rows created through defaults are invisible
// to status filters.
func TestWorkItemMigrationDefaultsMatchDomainEnums(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0001_create_work_items.sql"))
	require.NoError(t, err)
	sql := string(raw)

	assert.Contains(t, sql, fmt.Sprintf("DEFAULT '%s'", domain.CategoryGeneral))
	assert.Contains(t, sql, fmt.Sprintf("DEFAULT '%s'", domain.PriorityMedium))
	assert.Contains(t, sql, fmt.Sprintf("DEFAULT '%s'", domain.WorkItemStatusOpen))
}
