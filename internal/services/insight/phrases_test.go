package insight

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2024, 3, 15, 18, 45, 0, 0, time.UTC) // 14:45 ET

func TestFormatMillions(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{15_200_000, "$15.2M"},
		{5_249_999, "$5.2M"},
		{0, "$0.0M"},
		{999_999, "$1.0M"},
		{1_000_000_000, "$1000.0M"},
		// Ties round half to even on the binary value, like %.1f
		{15_250_000, "$15.2M"},
		{250_000, "$0.2M"},
		{2_650_000, "$2.6M"},
		{350_000, "$0.3M"},
		{-40_000, "$-0.0M"},
		{-15_250_000, "$-15.2M"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.0f", tt.amount), func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMillions(tt.amount))
		})
	}
}

func TestFormatMillions_MatchesPrintf(t *testing.T) {
	for _, amount := range []float64{15_250_000, 250_000, 2_650_000, 1_050_000, 123_456_789, -40_000, -2_350_000} {
		assert.Equal(t, fmt.Sprintf("$%.1fM", amount/1_000_000), FormatMillions(amount))
	}
}

func TestHistoricalHighPhrase_Tie(t *testing.T) {
	assert.Equal(t, "30-day High: $15.2M", HistoricalHighPhrase(15_250_000))
}

func TestValidHistoricalHigh(t *testing.T) {
	assert.True(t, validHistoricalHigh("30-day High: $1.0M"))
	assert.False(t, validHistoricalHigh("record high"))
	assert.False(t, validHistoricalHigh("30-day high: $1.0M"))
	assert.False(t, validHistoricalHigh(""))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "65%", FormatPercent(0.654))
	assert.Equal(t, "100%", FormatPercent(1))
	assert.Equal(t, "0%", FormatPercent(0))
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "14:30 ET", NormalizeTimestamp("14:30"))
	assert.Equal(t, "14:30 ET", NormalizeTimestamp("14:30 ET"))
	assert.Equal(t, "14:30 ET", NormalizeTimestamp(" 14:30 ET "))
}

func TestAssemblePhrases_HistoricalHighAlwaysFirst(t *testing.T) {
	tests := []struct {
		name     string
		dataset  Dataset
		ictx     Context
		expected string
	}{
		{
			name:     "required phrase verbatim",
			ictx:     Context{RequiredPhrases: RequiredPhrases{HistoricalHigh: "30-day High: $9.9M"}},
			dataset:  Dataset{HistoricalHigh: Float64(1_000_000)},
			expected: "30-day High: $9.9M",
		},
		{
			name:     "from dataset",
			dataset:  Dataset{HistoricalHigh: Float64(15_200_000)},
			expected: "30-day High: $15.2M",
		},
		{
			name:     "default",
			expected: "30-day High: $0.0M",
		},
		{
			name:     "malformed required phrase falls back",
			ictx:     Context{RequiredPhrases: RequiredPhrases{HistoricalHigh: "record high"}},
			dataset:  Dataset{HistoricalHigh: Float64(2_000_000)},
			expected: "30-day High: $2.0M",
		},
		{
			name: "intraday with only net premium",
			ictx: Context{
				IsIntraday:      true,
				RequiredPhrases: RequiredPhrases{NetPremium: "Net premium change of +$1.0M"},
			},
			expected: "30-day High: $0.0M",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phrases := AssemblePhrases(tt.dataset, tt.ictx, fixedNow)
			assert.NotEmpty(t, phrases)
			assert.Equal(t, tt.expected, phrases[0])
			assert.True(t, strings.HasPrefix(phrases[0], "30-day High: $"))
		})
	}
}

func TestAssemblePhrases_Idempotent(t *testing.T) {
	ictx := Context{
		IsIntraday: true,
		LatestTime: "10:05",
		RequiredPhrases: RequiredPhrases{
			CurrentMetrics: "Tech sector leads",
			SectorLead:     "representing 40% of 30-day High",
			NetPremium:     "Net premium change of +$2.0M",
		},
	}
	dataset := Dataset{HistoricalHigh: Float64(5_000_000)}

	first := AssemblePhrases(dataset, ictx, fixedNow)
	second := AssemblePhrases(dataset, ictx, fixedNow)

	assert.Equal(t, first, second)
	assert.Equal(t, "Net premium change of +$2.0M", ictx.RequiredPhrases.NetPremium, "context is not mutated")
}

func TestAssemblePhrases_Order(t *testing.T) {
	ictx := Context{
		RequiredPhrases: RequiredPhrases{
			NetPremium:     "net",
			SectorLead:     "sector",
			CurrentMetrics: "current",
		},
	}

	phrases := AssemblePhrases(Dataset{}, ictx, fixedNow)
	assert.Equal(t, []string{"30-day High: $0.0M", "current", "sector", "net"}, phrases)
}

func TestAssemblePhrases_IntradayMinuteByMinute(t *testing.T) {
	tests := []struct {
		name     string
		net      string
		expected string
	}{
		{"appends suffix", "Net premium change of +$8.5M", "Net premium change of +$8.5M showing minute-by-minute momentum"},
		{"already present", "minute-by-minute gain of $1.0M", "minute-by-minute gain of $1.0M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ictx := Context{IsIntraday: true, LatestTime: "14:30", RequiredPhrases: RequiredPhrases{NetPremium: tt.net}}
			phrases := AssemblePhrases(Dataset{}, ictx, fixedNow)

			last := phrases[len(phrases)-1]
			assert.Equal(t, tt.expected, last)
			assert.Contains(t, last, "minute-by-minute")
		})
	}
}

func TestAssemblePhrases_DailyLeavesNetPremium(t *testing.T) {
	ictx := Context{RequiredPhrases: RequiredPhrases{NetPremium: "Net premium change of +$8.5M"}}
	phrases := AssemblePhrases(Dataset{}, ictx, fixedNow)

	assert.Equal(t, []string{"30-day High: $0.0M", "Net premium change of +$8.5M"}, phrases)
}

func TestAssemblePhrases_Timestamp(t *testing.T) {
	tests := []struct {
		name     string
		latest   string
		expected string
	}{
		{"adds suffix", "14:30", "As of 14:30 ET"},
		{"no double suffix", "14:30 ET", "As of 14:30 ET"},
		{"wall clock in eastern time", "", "As of 14:45 ET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phrases := AssemblePhrases(Dataset{}, Context{IsIntraday: true, LatestTime: tt.latest}, fixedNow)
			assert.Len(t, phrases, 2)
			assert.Equal(t, tt.expected, phrases[1])
		})
	}
}

func TestFormatTemplate(t *testing.T) {
	assert.Equal(t, "30-day High: $0.0M.", FormatTemplate([]string{"30-day High: $0.0M"}))
	assert.Equal(t, "a. b. c.", FormatTemplate([]string{"a", "b", "c"}))
}

func TestTemplate_EndToEnd(t *testing.T) {
	dataset := Dataset{HistoricalHigh: Float64(15_200_000)}
	ictx := Context{
		IsIntraday: true,
		LatestTime: "14:30",
		RequiredPhrases: RequiredPhrases{
			CurrentMetrics: "Tech sector leads with $5.2M net call premium",
			SectorLead:     "representing 65% of 30-day High",
		},
	}

	template := FormatTemplate(AssemblePhrases(dataset, ictx, fixedNow))

	assert.Equal(t,
		"30-day High: $15.2M. As of 14:30 ET. Tech sector leads with $5.2M net call premium. representing 65% of 30-day High.",
		template)
}
