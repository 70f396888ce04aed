package cli

import (
	"strings"

	"github.com/matzehuels/indexforge/pkg/errors"
)

// parseProvision parses a --provide flag value of the form
// "IDENTIFIER=file1[,file2,...]" into an identifier and its filenames.
func parseProvision(value string) (string, []string, error) {
	identifier, files, ok := strings.Cut(value, "=")
	if !ok {
		return "", nil, errors.New(errors.ErrCodeInvalidProvisions,
			"provision %q is not of the form IDENTIFIER=FILE[,FILE...]", value)
	}
	identifier = strings.TrimSpace(identifier)
	var filenames []string
	for _, f := range strings.Split(files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			filenames = append(filenames, f)
		}
	}
	if identifier == "" || len(filenames) == 0 {
		return "", nil, errors.New(errors.ErrCodeInvalidProvisions,
			"provision %q is not of the form IDENTIFIER=FILE[,FILE...]", value)
	}
	return identifier, filenames, nil
}
