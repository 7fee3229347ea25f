package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/lukz/internal/models"
)

func TestFingerprint_Deterministic(t *testing.T) {
	records := []models.CongressTrade{{ID: "1", Member: "A", Amount: 1_000_000}}
	filters := map[string]string{"ticker": "AAPL", "start_date": "2024-01-01"}

	a := Fingerprint(DomainCongressTrades, filters, Dataset{Records: records})
	b := Fingerprint(DomainCongressTrades, map[string]string{"start_date": "2024-01-01", "ticker": "AAPL"}, Dataset{Records: records})

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprint_Distinguishes(t *testing.T) {
	records := []models.CongressTrade{{ID: "1", Member: "A", Amount: 1_000_000}}
	base := Fingerprint(DomainCongressTrades, map[string]string{"ticker": "AAPL"}, Dataset{Records: records})

	tests := []struct {
		name string
		fp   string
	}{
		{"domain", Fingerprint(DomainInsiderTrading, map[string]string{"ticker": "AAPL"}, Dataset{Records: records})},
		{"filter value", Fingerprint(DomainCongressTrades, map[string]string{"ticker": "MSFT"}, Dataset{Records: records})},
		{"dataset content", Fingerprint(DomainCongressTrades, map[string]string{"ticker": "AAPL"},
			Dataset{Records: []models.CongressTrade{{ID: "1", Member: "A", Amount: 2_000_000}}})},
		{"historical high", Fingerprint(DomainCongressTrades, map[string]string{"ticker": "AAPL"},
			Dataset{Records: records, HistoricalHigh: Float64(1)})},
		{"filter boundary", Fingerprint(DomainCongressTrades, map[string]string{"ticker": "AAPL", "": ""}, Dataset{Records: records})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, tt.fp)
		})
	}
}
