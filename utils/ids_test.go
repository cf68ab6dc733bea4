package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		width  int
		ids    []string
		want   string
	}{
		{"empty set", ItemIDPrefix, ItemIDWidth, nil, "ITM001"},
		{"gaps are not reused", ItemIDPrefix, ItemIDWidth, []string{"ITM001", "ITM003"}, "ITM004"},
		{"unordered input", ExperimentIDPrefix, ExperimentIDWidth, []string{"EXP010", "EXP002"}, "EXP011"},
		{"other prefixes are ignored", ItemIDPrefix, ItemIDWidth, []string{"EXP009", "ITM002", "CAT0100"}, "ITM003"},
		{"non-numeric suffix is ignored", ItemIDPrefix, ItemIDWidth, []string{"ITMabc", "ITM", "ITM1a"}, "ITM001"},
		{"negative suffix is ignored", ItemIDPrefix, ItemIDWidth, []string{"ITM-5"}, "ITM001"},
		{"lowercase prefix does not match", ItemIDPrefix, ItemIDWidth, []string{"itm007"}, "ITM001"},
		{"category width", CategoryIDPrefix, CategoryIDWidth, []string{"CAT0009"}, "CAT0010"},
		{"grows past the padding width", ItemIDPrefix, ItemIDWidth, []string{"ITM999"}, "ITM1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.prefix, tt.width, tt.ids))
		})
	}
}
