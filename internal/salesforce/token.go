package salesforce

import (
	"fmt"
	"os"
	"strings"

	"github.com/andbeder/PurpleFox/internal/chart"
)

// ReadToken reads the bearer token written by the login step. A missing or
// empty file is chart.ErrInputNotFound.
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: unable to read access token from %s", chart.ErrInputNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("reading access token %s: %w", path, err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: token file %s is empty", chart.ErrInputNotFound, path)
	}
	return token, nil
}
