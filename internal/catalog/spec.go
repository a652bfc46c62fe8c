package catalog

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/leapstack-labs/firefly/pkg/core"
)

// ConnectionSpec is the declared form of a connection.
type ConnectionSpec struct {
	Name        string         `mapstructure:"name" json:"name"`
	Description string         `mapstructure:"description" json:"description,omitempty"`
	Type        string         `mapstructure:"type" json:"type,omitempty"`
	Config      map[string]any `mapstructure:"config" json:"config"`
}

// Validate checks the fields a connection cannot be built without.
func (s ConnectionSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Config,
			validation.Required,
			validation.Map(
				validation.Key("url", validation.Required, validation.By(isString)),
			).AllowExtraKeys(),
		),
	)
}

// DatasetSpec is the declared form of a dataset.
type DatasetSpec struct {
	Name        string `mapstructure:"name" json:"name"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	Query       string `mapstructure:"query" json:"query"`
	Connection  string `mapstructure:"connection" json:"connection"`
}

// Validate checks the fields a dataset cannot be built without.
func (s DatasetSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Query, validation.Required),
		validation.Field(&s.Connection, validation.Required),
	)
}

// ChartSpec is the declared form of a chart.
type ChartSpec struct {
	Name        string `mapstructure:"name" json:"name"`
	Description string `mapstructure:"description" json:"description,omitempty"`
	Type        string `mapstructure:"type" json:"type,omitempty"`
	Dataset     string `mapstructure:"dataset" json:"dataset"`
}

// Validate checks the fields a chart cannot be built without.
func (s ChartSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Dataset, validation.Required),
	)
}

// WidgetSpec is the declared form of a dashboard widget. Config holds every
// key except type.
//
// Both of these forms declare the same banner:
//
//	- {type: banner, text: Hi}
//	- {type: banner, config: {text: Hi}}
type WidgetSpec struct {
	Type   string         `mapstructure:"type" json:"type"`
	Config map[string]any `mapstructure:",remain" json:"config,omitempty"`
}

// Settings returns the widget keys, unwrapping a lone nested config mapping.
func (s WidgetSpec) Settings() map[string]any {
	if len(s.Config) != 1 {
		return s.Config
	}
	switch nested := s.Config["config"].(type) {
	case map[string]any:
		return nested
	case map[any]any:
		out := make(map[string]any, len(nested))
		for k, v := range nested {
			out[fmt.Sprint(k)] = v
		}
		return out
	}
	return s.Config
}

// DashboardSpec is the declared form of a dashboard.
type DashboardSpec struct {
	Name        string       `mapstructure:"name" json:"name"`
	Description string       `mapstructure:"description" json:"description,omitempty"`
	Widgets     []WidgetSpec `mapstructure:"widgets" json:"widgets"`
}

// Validate checks the fields a dashboard cannot be built without.
func (s DashboardSpec) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required),
	)
}

func isString(value any) error {
	if _, ok := value.(string); !ok {
		return errors.New("must be a string")
	}
	return nil
}

// invalidConfig converts a validation failure into an InvalidConfigError
// naming the first offending field.
func invalidConfig(kind, name string, err error) error {
	field, cause := firstFieldError("", err)
	return &core.InvalidConfigError{Kind: kind, Name: name, Field: field, Err: cause}
}

func firstFieldError(prefix string, err error) (string, error) {
	var errs validation.Errors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return prefix, err
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	field := keys[0]
	if prefix != "" {
		field = fmt.Sprintf("%s.%s", prefix, field)
	}
	return firstFieldError(field, errs[keys[0]])
}
