package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSubQueries(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected []string
	}{
		{
			name:     "comma separated list",
			response: "population of Paris, population of Berlin",
			expected: []string{"population of Paris", "population of Berlin"},
		},
		{
			name:     "single query",
			response: "capital of France",
			expected: []string{"capital of France"},
		},
		{
			name:     "quoted items with trailing period",
			response: `"height of the Eiffel Tower", "year it was built".`,
			expected: []string{"height of the Eiffel Tower", "year it was built"},
		},
		{
			name:     "extra whitespace and empty parts",
			response: "  first query , ,  second query  ",
			expected: []string{"first query", "second query"},
		},
		{
			name:     "empty response",
			response: "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSubQueries(tt.response))
		})
	}
}
