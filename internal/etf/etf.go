// Package etf provides the mock exchange-traded fund dataset shown by the
// demo grid.
package etf

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Field names, in display order.
const (
	FieldFundName    = "fundName"
	FieldTicker      = "ticker"
	FieldAssetClass  = "assetClass"
	FieldTotalAssets = "totalAssets"
	FieldYield       = "yield"
	FieldPrice       = "price"
	FieldFundFlows   = "fundFlows"
	FieldReturnYTD   = "returnYTD"
	FieldReturn1Year = "return1Year"
	FieldReturn3Year = "return3Year"
)

//nolint:gochecknoglobals // Fixed lookup tables.
var (
	fundNames    = []string{"Vanguard", "iShares", "SPDR", "Fidelity", "Schwab"}
	assetClasses = []string{"Equity", "Fixed Income", "Commodity", "Real Estate", "Multi-Asset"}
	tickers      = []string{"VTI", "VOO", "SPY", "QQQ", "BND", "GLD", "VNQ", "IEMG", "HYG", "XLF"}
)

// Fund is one row of the dataset.
type Fund struct {
	FundName    string
	Ticker      string
	AssetClass  string
	TotalAssets int64
	Yield       float64
	Price       float64
	FundFlows   int64
	ReturnYTD   float64
	Return1Year float64
	Return3Year float64
}

// Column describes a dataset field for display.
type Column struct {
	Field  string
	Header string
}

// Columns returns the dataset's columns in display order.
func Columns() []Column {
	return []Column{
		{Field: FieldFundName, Header: "Fund Name"},
		{Field: FieldTicker, Header: "Ticker"},
		{Field: FieldAssetClass, Header: "Asset Class"},
		{Field: FieldTotalAssets, Header: "Total Assets ($)"},
		{Field: FieldYield, Header: "Yield (%)"},
		{Field: FieldPrice, Header: "Price ($)"},
		{Field: FieldFundFlows, Header: "Fund Flows ($)"},
		{Field: FieldReturnYTD, Header: "Return YTD (%)"},
		{Field: FieldReturn1Year, Header: "Return 1 Year (%)"},
		{Field: FieldReturn3Year, Header: "Return 3 Years (%)"},
	}
}

// Field returns the value of the named field, or nil for an unknown name.
func (f *Fund) Field(name string) any {
	switch name {
	case FieldFundName:
		return f.FundName
	case FieldTicker:
		return f.Ticker
	case FieldAssetClass:
		return f.AssetClass
	case FieldTotalAssets:
		return f.TotalAssets
	case FieldYield:
		return f.Yield
	case FieldPrice:
		return f.Price
	case FieldFundFlows:
		return f.FundFlows
	case FieldReturnYTD:
		return f.ReturnYTD
	case FieldReturn1Year:
		return f.Return1Year
	case FieldReturn3Year:
		return f.Return3Year
	default:
		return nil
	}
}

// Generate returns count funds. The same seed always yields the same data.
func Generate(count int, seed uint64) []Fund {
	if count <= 0 {
		return nil
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // Mock data.
	funds := make([]Fund, count)
	for i := range funds {
		funds[i] = Fund{
			FundName:   fmt.Sprintf("%s Fund %d", fundNames[i%len(fundNames)], i),
			Ticker:     tickers[i%len(tickers)],
			AssetClass: assetClasses[i%len(assetClasses)],
		}
		randomize(&funds[i], r)
	}
	return funds
}

// randomize fills the numeric fields within their mock ranges.
func randomize(f *Fund, r *rand.Rand) {
	f.TotalAssets = r.Int64N(1_000_000) + 1_000_000
	f.Yield = round2(r.Float64() * 10)
	f.Price = round2(r.Float64()*300 + 100)
	f.FundFlows = r.Int64N(1_000_000) - 500_000
	f.ReturnYTD = round2(r.Float64()*100 - 50)
	f.Return1Year = round2(r.Float64()*100 - 50)
	f.Return3Year = round2(r.Float64()*300 - 150)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Table is a mutable row source over a fund slice.
type Table struct {
	funds []Fund
	rng   *rand.Rand
}

// NewTable returns a table of count generated funds.
func NewTable(count int, seed uint64) *Table {
	return &Table{
		funds: Generate(count, seed),
		rng:   rand.New(rand.NewPCG(seed+1, seed)), //nolint:gosec // Mock data.
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.funds) }

// Record returns a pointer to the fund at row, or nil when out of range.
func (t *Table) Record(row int) any {
	if row < 0 || row >= len(t.funds) {
		return nil
	}
	return &t.funds[row]
}

// Value returns the named field of the fund at row.
func (t *Table) Value(row int, field string) any {
	if row < 0 || row >= len(t.funds) {
		return nil
	}
	return t.funds[row].Field(field)
}

// Tick re-rolls the numeric fields of every row, simulating a market update.
func (t *Table) Tick() {
	for i := range t.funds {
		randomize(&t.funds[i], t.rng)
	}
}
