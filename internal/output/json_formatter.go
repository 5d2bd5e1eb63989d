package output

import (
	json "github.com/goccy/go-json"
	"github.com/rpgo/networth-planner/internal/domain"
)

// JSONFormatter serializes the scenario comparison as pretty-printed JSON,
// with money rounded to cents.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	return json.MarshalIndent(results.Round(2), "", "  ")
}
