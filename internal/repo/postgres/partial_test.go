package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLFieldsDistinguishesOmittedAndNull(t *testing.T) {
	p := PartialUpdate{
		"firstName":   FieldValue("Ada"),
		"description": FieldNull(),
		"zeroValue":   {}, // zero Field means the caller never set it
	}

	fields, ok := p.SQLFields()

	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"first_name":  "Ada",
		"description": nil,
	}, fields)
}

func TestSQLFieldsEmpty(t *testing.T) {
	fields, ok := PartialUpdate{}.SQLFields()

	assert.False(t, ok)
	assert.Empty(t, fields)
}

func TestSetClauseIsDeterministic(t *testing.T) {
	p := PartialUpdate{
		"lastName":  FieldValue("Lovelace"),
		"firstName": FieldValue("Ada"),
	}

	clause, args, err := p.SetClause(2)

	require.NoError(t, err)
	// columns sorted, placeholders numbered from startPos
	assert.Equal(t, "first_name = $2, last_name = $3", clause)
	assert.Equal(t, []any{"Ada", "Lovelace"}, args)
}

func TestSetClauseNullArg(t *testing.T) {
	clause, args, err := PartialUpdate{"description": FieldNull()}.SetClause(2)

	require.NoError(t, err)
	assert.Equal(t, "description = $2", clause)
	require.Len(t, args, 1)
	assert.Nil(t, args[0])
}

func TestSetClauseGuardsEmptyUpdate(t *testing.T) {
	_, _, err := PartialUpdate{}.SetClause(2)
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	// a map of only-omitted fields is just as empty
	_, _, err = PartialUpdate{"firstName": {}}.SetClause(2)
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"firstName", "first_name"},
		{"lastName", "last_name"},
		{"ownerId", "owner_id"},
		{"status", "status"},
		{"createdAt", "created_at"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, toSnakeCase(tt.in), tt.in)
	}
}
