package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gh-release-changelog/gh-release-changelog/internal/ignore"
)

// ValidationError is a configuration problem. Line is set for YAML syntax
// errors, Field for rejected values.
type ValidationError struct {
	Source  string
	Line    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: %s %s", e.Source, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// yaml.v3 reports syntax errors as "yaml: line N: message".
var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

// checkYAMLSyntax parses data as YAML so syntax errors are reported with
// their line before koanf flattens the document.
func checkYAMLSyntax(data []byte, source string) error {
	var node yaml.Node
	err := yaml.Unmarshal(data, &node)
	if err == nil {
		return nil
	}
	verr := &ValidationError{Source: source, Message: err.Error()}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		verr.Line, _ = strconv.Atoi(m[1])
		verr.Message = m[2]
	}
	return verr
}

var configValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	return v
})

// validateValues checks cfg against its struct tags and compiles every
// ignore rule. Only the first problem is reported.
func validateValues(cfg *Configuration, source string) error {
	err := configValidator().Struct(cfg)
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		return &ValidationError{Source: source, Field: fieldErrs[0].Field(), Message: describeFieldError(fieldErrs[0])}
	case err != nil:
		return &ValidationError{Source: source, Message: err.Error()}
	}

	for _, pattern := range cfg.IgnoreRules {
		if _, err := ignore.Compile([]string{pattern}, ignore.Replace); err != nil {
			return &ValidationError{Source: source, Field: "ignore_rules", Message: err.Error()}
		}
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "url":
		return "must be a URL"
	}
	return "failed validation: " + fe.Tag()
}
