package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC  ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE orders;--", "DESC"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ValidateSortOrder(tt.input), "input %q", tt.input)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty falls back", "", "created_at"},
		{"whitelisted", "order_number", "order_number"},
		{"trimmed", "  total ", "total"},
		{"case sensitive", "TOTAL", "created_at"},
		{"unknown column", "user_id", "created_at"},
		{"injection attempt", "total; DROP TABLE orders;--", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, OrderSortFields, "created_at"))
		})
	}
}

func TestSortFieldWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"orders":   OrderSortFields,
		"products": ProductSortFields,
		"outbox":   OutboxSortFields,
	} {
		assert.True(t, fields["created_at"], name)
		assert.True(t, fields["updated_at"], name)
	}
}
