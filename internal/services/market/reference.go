package market

type security struct {
	Ticker  string
	Company string
	Sector  string
}

var universe = []security{
	{"AAPL", "Apple Inc.", "Technology"},
	{"MSFT", "Microsoft Corp.", "Technology"},
	{"NVDA", "NVIDIA Corp.", "Technology"},
	{"GOOGL", "Alphabet Inc.", "Communication Services"},
	{"META", "Meta Platforms Inc.", "Communication Services"},
	{"AMZN", "Amazon.com Inc.", "Consumer Discretionary"},
	{"TSLA", "Tesla Inc.", "Consumer Discretionary"},
	{"JPM", "JPMorgan Chase & Co.", "Financials"},
	{"GS", "Goldman Sachs Group Inc.", "Financials"},
	{"XOM", "Exxon Mobil Corp.", "Energy"},
	{"CVX", "Chevron Corp.", "Energy"},
	{"UNH", "UnitedHealth Group Inc.", "Healthcare"},
	{"PFE", "Pfizer Inc.", "Healthcare"},
	{"LMT", "Lockheed Martin Corp.", "Industrials"},
	{"BA", "Boeing Co.", "Industrials"},
	{"PG", "Procter & Gamble Co.", "Consumer Staples"},
	{"NEE", "NextEra Energy Inc.", "Utilities"},
	{"LIN", "Linde plc", "Materials"},
	{"PLD", "Prologis Inc.", "Real Estate"},
}

type member struct {
	Name    string
	Party   string
	Chamber string
}

var members = []member{
	{"Nancy Pelosi", "D", "House"},
	{"Dan Crenshaw", "R", "House"},
	{"Tommy Tuberville", "R", "Senate"},
	{"Josh Gottheimer", "D", "House"},
	{"Mark Green", "R", "House"},
	{"Ro Khanna", "D", "House"},
	{"Sheldon Whitehouse", "D", "Senate"},
	{"Marjorie Taylor Greene", "R", "House"},
}

var insiderRoles = []string{"CEO", "CFO", "COO", "Director", "10% Owner", "General Counsel"}

var insiderNames = []string{
	"A. Morgan", "B. Chen", "C. Patel", "D. Okafor", "E. Rossi", "F. Nakamura", "G. Schmidt", "H. Alvarez",
}

var sectorDescriptions = map[string]string{
	"Technology":             "Software, semiconductors, hardware and IT services",
	"Communication Services": "Telecom, media, entertainment and interactive platforms",
	"Consumer Discretionary": "Retail, autos, leisure and other non-essential goods",
	"Consumer Staples":       "Food, beverages, household and personal products",
	"Energy":                 "Oil, gas, and energy equipment and services",
	"Financials":             "Banks, insurance, capital markets and diversified financials",
	"Healthcare":             "Pharmaceuticals, biotech, providers and medical devices",
	"Industrials":            "Aerospace, defense, machinery and transportation",
	"Materials":              "Chemicals, construction materials, metals and mining",
	"Real Estate":            "REITs and real estate management and development",
	"Utilities":              "Electric, gas and water utilities",
}

var greekDescriptions = map[string]string{
	"delta_flow":     "Net directional exposure traded; positive values indicate bullish positioning",
	"gamma_flow":     "Rate of change of delta; high gamma means dealer hedging can accelerate moves",
	"vega_flow":      "Sensitivity to implied volatility; positive values indicate long volatility positioning",
	"theta_flow":     "Time decay exposure; negative values indicate premium paid that decays daily",
	"call_volume":    "Number of call contracts traded",
	"put_volume":     "Number of put contracts traded",
	"total_premium":  "Total dollar premium traded across calls and puts",
	"otm_percentage": "Share of volume in out-of-the-money strikes",
}

func sectorNames() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, s := range universe {
		if !seen[s.Sector] {
			seen[s.Sector] = true
			out = append(out, s.Sector)
		}
	}
	return out
}
