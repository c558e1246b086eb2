package ghg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportFilename(t *testing.T) {
	tests := []struct {
		templateID string
		want       string
	}{
		{"tpl-8", "tpl-8-ghg.xlsx"},
		{"FY2025_v1.2", "FY2025_v1.2-ghg.xlsx"},
		{`a"b`, "a_b-ghg.xlsx"},
		{"x;y\r\nz", "x_y__z-ghg.xlsx"},
		{"报告", "__-ghg.xlsx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exportFilename(tt.templateID), tt.templateID)
	}
}
