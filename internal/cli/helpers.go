package cli

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/konekt-network/konekt/internal/domain"
)

var titleCaser = cases.Title(language.English)

// newLineScanner creates a line scanner from a reader.
func newLineScanner(r io.Reader) *bufio.Scanner {
	return bufio.NewScanner(r)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// metricLabel turns "profile_views" into "Profile Views".
func metricLabel(m domain.Metric) string {
	return titleCaser.String(strings.ReplaceAll(string(m), "_", " "))
}

func rarityLabel(r domain.Rarity) string {
	return titleCaser.String(string(r))
}

// parseMetric accepts a metric name in any case, with dashes or underscores.
func parseMetric(s string) domain.Metric {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	return domain.Metric(s)
}
