package importer

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError aborts a whole import file: the sheet is missing columns
// the pipeline cannot work without. Individual bad rows never raise this;
// they are skipped and logged.
type ValidationError struct {
	Shape   string
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		missing := append([]string(nil), e.Missing...)
		sort.Strings(missing)
		return fmt.Sprintf("%s import: required columns missing: %s", e.Shape, strings.Join(missing, ", "))
	}
	return fmt.Sprintf("%s import: %s", e.Shape, e.Reason)
}
