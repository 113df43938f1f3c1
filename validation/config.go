package validation

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Config checks a configuration struct against its `validate` tags and
// returns a plain error naming each failing key as section.key. It is meant
// for startup, not API responses.
func Config(section string, cfg any) error {
	fieldErrs, err := check(cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", section, err)
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	problems := make([]string, len(fieldErrs))
	for i, e := range fieldErrs {
		problems[i] = fmt.Sprintf("%s.%s %s (got: %v)", section, e.Field(), describe(e), e.Value())
	}
	return stderrors.New(strings.Join(problems, "; "))
}
