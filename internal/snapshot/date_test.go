package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportDateFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    string
		wantErr bool
	}{
		{"plain", "20161209.png", "2016-12-09", false},
		{"page suffix", "20161209-6.png", "2016-12-09", false},
		{"full path", "/data/charts/20170106-2.png", "2017-01-06", false},
		{"no date", "chart.png", "", true},
		{"short digits", "2016120.png", "", true},
		{"invalid month", "20161309.png", "", true},
		{"invalid day", "20161232.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReportDateFromFilename(tt.file)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
