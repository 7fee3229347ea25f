package insight

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/ternarybob/lukz/internal/interfaces"
)

// DefaultWordLimit bounds the generated insight length.
const DefaultWordLimit = 100

const assistantAcknowledgement = "I understand I must explicitly mention '30-day High' metrics and include ET timestamps for intraday data in my analysis."

const systemInstruction = `You are a senior financial analyst. Your insights MUST follow this EXACT format and requirements:

CRITICAL FORMAT REQUIREMENTS:
1. MUST START with historical high reference: "30-day High: $X.XM"
2. For intraday data:
   - MUST include "As of HH:MM ET" timestamp
   - MUST use phrase "minute-by-minute" (not "intraday")
   - MUST include "showing minute-by-minute momentum"

Required Elements (in exact order):
1. Historical High (MUST be first): Use EXACTLY as provided
2. Timestamp (for intraday): "As of HH:MM ET"
3. Current Metrics: Use EXACTLY as provided
4. Sector Lead: Use EXACTLY as provided
5. Net Premium Change: Use EXACTLY as provided

Example Format:
"30-day High: $15.2M. As of 14:30 ET: Tech sector leads with $5.2M net call premium, representing 65%% of 30-day high. Minute-by-minute analysis shows strong accumulation in semiconductors. Net premium change of $8.5M showing minute-by-minute momentum."

Your response MUST start with the exact historical high phrase, include ALL required phrases in exact order, include "ET" in all timestamps and stay under %d words.`

// Prompt is the three-part instruction payload sent to the generator.
type Prompt struct {
	System    string
	User      string
	Assistant string // seed acknowledgement, may be empty
}

// Messages converts the prompt into generator messages in role order.
func (p Prompt) Messages() []interfaces.Message {
	msgs := []interfaces.Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}
	if p.Assistant != "" {
		msgs = append(msgs, interfaces.Message{Role: "assistant", Content: p.Assistant})
	}
	return msgs
}

// BuildPrompt composes the payload from the domain preamble, the canonical
// template, the assembled phrases, context metadata and the dataset.
// It does not modify ictx or dataset.
func BuildPrompt(preamble, template string, phrases []string, ictx Context, dataset Dataset, wordLimit int) Prompt {
	if wordLimit <= 0 {
		wordLimit = DefaultWordLimit
	}

	var b strings.Builder

	if preamble != "" {
		b.WriteString(strings.TrimSpace(preamble))
		b.WriteString("\n\n")
	}

	b.WriteString("You MUST follow this EXACT template for your response:\n")
	b.WriteString(template)
	b.WriteString("\n\n")

	b.WriteString("Example format that MUST be followed:\n")
	b.WriteString(`"{historical_high}. As of {latest_time}: {current_metrics}. {sector_lead}. {net_premium} showing minute-by-minute momentum."`)
	b.WriteString("\n\n")

	b.WriteString("Required Phrases (MUST use EXACTLY as provided, in order):\n")
	for i, p := range phrases {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	b.WriteString("\n")

	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Data Type: %s\n", orDefault(ictx.DataType, "financial data"))
	fmt.Fprintf(&b, "- Time Range: %s\n", orDefault(ictx.TimeRange, "recent"))
	fmt.Fprintf(&b, "- View Type: %s\n", orDefault(ictx.ViewType, "standard"))
	fmt.Fprintf(&b, "- Historical Context: %s\n", orDefault(ictx.HistoricalContext, "No historical data available"))
	fmt.Fprintf(&b, "- Additional Context: %s\n", ictx.AdditionalContext)
	if ictx.IsIntraday {
		b.WriteString("- Intraday: use \"minute-by-minute\" terminology and ET timestamps\n")
	}
	b.WriteString("\n")

	b.WriteString("Data to Analyze:\n")
	b.WriteString(renderDataset(dataset))

	return Prompt{
		System:    fmt.Sprintf(systemInstruction, wordLimit),
		User:      b.String(),
		Assistant: assistantAcknowledgement,
	}
}

// maxPromptRecords caps the records rendered into the prompt. Fingerprints
// and summary phrases use the full series.
const maxPromptRecords = 60

// promptRecords keeps the most recent maxPromptRecords of a slice.
func promptRecords(records any) any {
	v := reflect.ValueOf(records)
	if v.Kind() != reflect.Slice || v.Len() <= maxPromptRecords {
		return records
	}
	return v.Slice(v.Len()-maxPromptRecords, v.Len()).Interface()
}

func renderDataset(dataset Dataset) string {
	payload := map[string]interface{}{"records": promptRecords(dataset.Records)}
	if dataset.HistoricalHigh != nil {
		payload["historical_high"] = *dataset.HistoricalHigh
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", dataset.Records)
	}
	return string(data)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
