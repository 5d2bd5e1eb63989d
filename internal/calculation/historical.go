package calculation

import (
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

//go:embed data/*.csv
var historicalFS embed.FS

var hundred = decimal.NewFromInt(100)

// HistoricalDataPoint is one year of a historical series. Rate is a fraction.
type HistoricalDataPoint struct {
	Year int
	Rate decimal.Decimal
}

// HistoricalSeries is an annual rate series ordered by year.
type HistoricalSeries struct {
	Name    string
	Source  string
	Points  []HistoricalDataPoint
	MinYear int
	MaxYear int
}

// HistoricalData holds the market return and inflation series used for bootstrapping.
type HistoricalData struct {
	Returns   *HistoricalSeries
	Inflation *HistoricalSeries
}

// LoadHistoricalData reads the embedded S&P 500 total return and CPI series.
func LoadHistoricalData() (*HistoricalData, error) {
	returns, err := loadSeries("data/sp500-annual.csv", "S&P 500 annual total return", "NYU Stern (Damodaran)")
	if err != nil {
		return nil, fmt.Errorf("failed to load return data: %w", err)
	}
	inflation, err := loadSeries("data/cpi-annual.csv", "CPI-U annual inflation", "BLS")
	if err != nil {
		return nil, fmt.Errorf("failed to load inflation data: %w", err)
	}
	return &HistoricalData{Returns: returns, Inflation: inflation}, nil
}

func loadSeries(path, name, source string) (*HistoricalSeries, error) {
	f, err := historicalFS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return parseSeries(f, name, source)
}

// parseSeries reads "year,percent" rows. Malformed rows are skipped.
func parseSeries(r io.Reader, name, source string) (*HistoricalSeries, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	s := &HistoricalSeries{Name: name, Source: source}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			continue
		}
		pct, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}
		s.Points = append(s.Points, HistoricalDataPoint{Year: year, Rate: pct.Div(hundred)})
	}

	if len(s.Points) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", name)
	}
	s.MinYear, s.MaxYear = s.Points[0].Year, s.Points[0].Year
	for _, p := range s.Points {
		if p.Year < s.MinYear {
			s.MinYear = p.Year
		}
		if p.Year > s.MaxYear {
			s.MaxYear = p.Year
		}
	}
	return s, nil
}

// Rates returns the rates of the most recent n years, or all of them when
// n is non-positive or exceeds the series length.
func (s *HistoricalSeries) Rates(n int) []decimal.Decimal {
	cutoff := s.MinYear
	if n > 0 && s.MaxYear-n+1 > cutoff {
		cutoff = s.MaxYear - n + 1
	}
	out := make([]decimal.Decimal, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Year >= cutoff {
			out = append(out, p.Rate)
		}
	}
	return out
}

// Mean returns the arithmetic mean of rates, or zero for an empty slice.
func Mean(rates []decimal.Decimal) decimal.Decimal {
	if len(rates) == 0 {
		return decimal.Zero
	}
	var sum decimal.Decimal
	for _, r := range rates {
		sum = sum.Add(r)
	}
	return sum.Div(decimal.NewFromInt(int64(len(rates))))
}

// ShiftToMean translates rates so their mean equals target while keeping
// their spread. Shifted rates are rounded to six places and floored at -1.
func ShiftToMean(rates []decimal.Decimal, target decimal.Decimal) []decimal.Decimal {
	shift := target.Sub(Mean(rates))
	out := make([]decimal.Decimal, len(rates))
	for i, r := range rates {
		v := r.Add(shift).Round(6)
		if v.LessThan(minusOne) {
			v = minusOne
		}
		out[i] = v
	}
	return out
}
