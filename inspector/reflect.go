package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is rendered.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// Field is one exported component field with its rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// ParseTag parses an inspect struct tag of the form
// `inspect:"widget[,option:value...]"`, for example
//
//	`inspect:"bar,max:200"`
//	`inspect:"label,fmt:%.1f,unit:kg"`
//	`inspect:"skip"`
//
// Unknown widgets fall back to WidgetAuto.
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	head, rest, _ := strings.Cut(tag, ",")
	widget := widgetNames[strings.TrimSpace(head)]

	for _, part := range strings.Split(rest, ",") {
		if k, v, ok := strings.Cut(strings.TrimSpace(part), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

// ExtractFields lists the exported fields of a struct or struct pointer.
// Untagged struct fields are flattened as Parent.Child.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}
	return extract(v, "")
}

func extract(v reflect.Value, prefix string) []Field {
	t := v.Type()
	var fields []Field

	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		switch {
		case widget == WidgetSkip:
			continue
		case widget == WidgetAuto && fv.Kind() == reflect.Struct && !isStringer(fv):
			fields = append(fields, extract(fv, prefix+sf.Name+".")...)
			continue
		case widget == WidgetAuto && fv.Kind() == reflect.Bool:
			widget = WidgetBool
		case widget == WidgetAuto:
			widget = WidgetLabel
		}

		fields = append(fields, Field{
			Name:    prefix + sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}
	return fields
}

func isStringer(v reflect.Value) bool {
	_, ok := v.Interface().(fmt.Stringer)
	return ok
}

// FormatValue renders value with the fmt option, or with two decimals for
// floats. A unit option is appended.
func FormatValue(value any, options map[string]string) string {
	var s string
	switch fmtStr := options["fmt"]; {
	case fmtStr != "":
		s = fmt.Sprintf(fmtStr, value)
	default:
		if f, ok := value.(float64); ok {
			s = strconv.FormatFloat(f, 'f', 2, 64)
		} else {
			s = fmt.Sprint(value)
		}
	}
	if unit := options["unit"]; unit != "" {
		s += " " + unit
	}
	return s
}

// GetMax returns the max option, defaulting to 1.
func GetMax(options map[string]string) float64 {
	if v, err := strconv.ParseFloat(options["max"], 64); err == nil && v > 0 {
		return v
	}
	return 1
}

// GetFloatValue converts any numeric value to float64.
func GetFloatValue(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch {
	case v.CanFloat():
		return v.Float(), true
	case v.CanInt():
		return float64(v.Int()), true
	case v.CanUint():
		return float64(v.Uint()), true
	}
	return 0, false
}
