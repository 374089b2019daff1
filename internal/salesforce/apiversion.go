package salesforce

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/andbeder/PurpleFox/internal/chart"
)

// minAPIVersion is the first REST API release serving wave/dashboards.
var minAPIVersion = semver.MustParse("36.0")

// NormalizeAPIVersion accepts "60", "60.0" or "v60.0" and returns the
// "major.minor" form used in REST paths.
func NormalizeAPIVersion(v string) (string, error) {
	parsed, err := semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(v), "v"))
	if err != nil {
		return "", fmt.Errorf("%w: API version %q: %v", chart.ErrMalformedInput, v, err)
	}
	if parsed.LessThan(minAPIVersion) {
		return "", fmt.Errorf("%w: API version %s is older than %d.0", chart.ErrMalformedInput, v, minAPIVersion.Major())
	}
	return fmt.Sprintf("%d.%d", parsed.Major(), parsed.Minor()), nil
}
