package insight

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Fingerprint derives the cache key for (domain, filters, dataset). Filters
// are hashed in key order; the dataset is hashed via its JSON encoding, which
// is stable for structs and sorts map keys.
func Fingerprint(domain Domain, filters map[string]string, dataset Dataset) string {
	h := sha256.New()

	fmt.Fprintf(h, "domain=%s\n", domain)

	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%q=%q\n", k, filters[k])
	}

	if dataset.HistoricalHigh != nil {
		fmt.Fprintf(h, "historical_high=%v\n", *dataset.HistoricalHigh)
	}

	data, err := json.Marshal(dataset.Records)
	if err != nil {
		// Unencodable records still hash, by their Go representation
		data = []byte(fmt.Sprintf("%#v", dataset.Records))
	}
	h.Write(data)

	return hex.EncodeToString(h.Sum(nil))
}
