package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "lowercases and dedupes",
			input:    []string{"Kafka-1:9092", "kafka-1:9092", "KAFKA-1:9092"},
			expected: []string{"kafka-1:9092"},
		},
		{
			name:     "trims and drops empties",
			input:    []string{"  kafka-1:9092 ", "", "  ", "kafka-2:9092"},
			expected: []string{"kafka-1:9092", "kafka-2:9092"},
		},
		{
			name:     "preserves first-seen order",
			input:    []string{"b:1", "a:1", "B:1", "c:1", "a:1"},
			expected: []string{"b:1", "a:1", "c:1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrimLower(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
