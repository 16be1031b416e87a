package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var componentValidate = validator.New()

// markInvalid sets Problem on every incomplete record, nested ones included.
// The message carries the record's position in the document.
func markInvalid(components []Component, path string) {
	for i := range components {
		at := fmt.Sprintf("%s[%d]", path, i)
		if problems := recordProblems(components[i]); len(problems) > 0 {
			components[i].Problem = at + ": " + strings.Join(problems, ", ")
		}
		markInvalid(components[i].ConnectsTo, at+".connectsTo")
	}
}

func recordProblems(c Component) []string {
	err := componentValidate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return problems
}

// InvalidRecords returns the Problem of every incomplete record in document order.
func (d *Document) InvalidRecords() []string {
	var out []string
	var walk func([]Component)
	walk = func(components []Component) {
		for _, c := range components {
			if c.Problem != "" {
				out = append(out, c.Problem)
			}
			walk(c.ConnectsTo)
		}
	}
	walk(d.Components)
	return out
}
