package output

import (
	"fmt"
	"strings"

	"github.com/rpgo/networth-planner/internal/domain"
)

// extensionFor maps a canonical formatter name to a file extension.
func extensionFor(name string) string {
	switch {
	case strings.Contains(name, "csv"):
		return "csv"
	case strings.HasPrefix(name, "console"):
		return "txt"
	default:
		return name
	}
}

// GenerateReport writes results in format to a timestamped file in dir and
// returns the file names. "all" writes the verbose console, detailed CSV and
// HTML reports.
func GenerateReport(results *domain.ScenarioComparison, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, name := range []string{"console", "detailed-csv", "html"} {
			f := GetFormatterByName(name)
			file, err := WriteFormatted(f, results, dir, extensionFor(name))
			if err != nil {
				return files, err
			}
			files = append(files, file)
		}
		return files, nil
	}
	f := GetFormatterByName(format)
	if f == nil {
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	file, err := WriteFormatted(f, results, dir, extensionFor(f.Name()))
	if err != nil {
		return nil, err
	}
	return []string{file}, nil
}
