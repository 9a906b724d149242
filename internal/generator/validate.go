package generator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/mirror12k/catwalk-apigen/pkg/types"
)

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	validate     = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// reservedNames lists what a target's emitted code already uses.
type reservedNames struct {
	keywords map[string]struct{}
	// funcKeywords means keywords are also illegal as callable names.
	funcKeywords bool
	funcs        []string
	params       []string
}

func (r reservedNames) funcReserved(name string) bool {
	if r.funcKeywords {
		if _, ok := r.keywords[name]; ok {
			return true
		}
	}
	return contains(r.funcs, name)
}

func (r reservedNames) paramReserved(name string) bool {
	if _, ok := r.keywords[name]; ok {
		return true
	}
	return contains(r.params, name)
}

// FunctionName derives the callable name from an action: the last non-empty
// slash-delimited segment, or "" when there is none.
func FunctionName(action string) string {
	segs := strings.Split(action, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			return segs[i]
		}
	}
	return ""
}

// Validate checks def against the naming rules of target without emitting anything.
func Validate(def types.APIDefinition, target Target, opts Options) error {
	em, err := emitterFor(target)
	if err != nil {
		return err
	}
	opts = opts.resolve(target)
	if err := validateEndpointURL(opts.EndpointURL); err != nil {
		return err
	}
	return validateDefinition(def, em.reserved(opts))
}

func validateDefinition(def types.APIDefinition, res reservedNames) error {
	var problems []EndpointProblem
	seen := make(map[string]int, len(def))
	for i, ep := range def {
		add := func(field, reason string) {
			problems = append(problems, EndpointProblem{Index: i, Action: ep.Action, Field: field, Reason: reason})
		}

		if err := validate.Struct(ep); err != nil {
			var valErrs validator.ValidationErrors
			if !errors.As(err, &valErrs) {
				add("", err.Error())
				continue
			}
			for _, ve := range valErrs {
				add(ve.Field(), formatValidationError(ve))
			}
		}

		if ep.Action != "" {
			name := FunctionName(ep.Action)
			switch {
			case !quotable(ep.Action):
				add("action", "contains quote, backslash or control characters")
			case name == "":
				add("action", "has no non-empty path segment")
			case !identPattern.MatchString(name):
				add("action", fmt.Sprintf("derived name %q is not a valid identifier", name))
			case res.funcReserved(name):
				add("action", fmt.Sprintf("derived name %q is reserved", name))
			default:
				if j, ok := seen[name]; ok {
					add("action", fmt.Sprintf("derived name %q duplicates endpoint %d", name, j))
				} else {
					seen[name] = i
				}
			}
		}

		argIndex := make(map[string]int, len(ep.Args))
		for k, arg := range ep.Args {
			if !identPattern.MatchString(arg) {
				continue
			}
			field := fmt.Sprintf("args[%d]", k)
			if j, ok := argIndex[arg]; ok {
				add(field, fmt.Sprintf("%q duplicates args[%d]", arg, j))
				continue
			}
			argIndex[arg] = k
			if res.paramReserved(arg) {
				add(field, fmt.Sprintf("%q is reserved", arg))
			}
		}
	}
	if len(problems) > 0 {
		return &InvalidEndpointDefinitionError{Problems: problems}
	}
	return nil
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "required"
	case "identifier":
		return fmt.Sprintf("%q is not a valid identifier", ve.Value())
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}

func quotable(s string) bool {
	for _, r := range s {
		if r == '\'' || r == '"' || r == '\\' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
