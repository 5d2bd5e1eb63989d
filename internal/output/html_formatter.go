package output

import (
	"bytes"
	_ "embed"
	"html/template"

	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
	"rate": FormatRate,
	"add":  func(i, j int) int { return i + j },
	"json": func(v interface{}) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

// chartSeries is the per-scenario data handed to the inline chart script.
type chartSeries struct {
	Name    string   `json:"name"`
	Nominal []string `json:"nominal"`
	Real    []string `json:"real"`
}

func (h HTMLFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	rec := AnalyzeScenarios(results)

	assumptions := results.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}

	series := make([]chartSeries, 0, len(results.Results))
	for _, e := range results.Results {
		s := chartSeries{Name: e.Scenario.Name}
		for _, y := range e.Records {
			s.Nominal = append(s.Nominal, y.EndingBalance.StringFixed(2))
			s.Real = append(s.Real, y.InflationAdjustedBalance.StringFixed(2))
		}
		series = append(series, s)
	}

	data := struct {
		*domain.ScenarioComparison
		Recommendation Recommendation
		Assumptions    []string
		Series         []chartSeries
	}{results, rec, assumptions, series}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
