package inspector

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	barWidth  = 20
	nameWidth = 14
)

// WriteLabel renders a text value.
func WriteLabel(w io.Writer, name string, value any, options map[string]string) error {
	_, err := fmt.Fprintf(w, "  %-*s %s\n", nameWidth, name, FormatValue(value, options))
	return err
}

// WriteBar renders a horizontal bar scaled against the max option.
func WriteBar(w io.Writer, name string, value float64, options map[string]string) error {
	maxVal := GetMax(options)
	ratio := value / maxVal
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 || math.IsNaN(ratio) {
		ratio = 0
	}

	fill := int(math.Round(ratio * barWidth))
	bar := strings.Repeat("#", fill) + strings.Repeat(".", barWidth-fill)
	_, err := fmt.Fprintf(w, "  %-*s [%s] %.2f/%.2f\n", nameWidth, name, bar, value, maxVal)
	return err
}

// WriteBool renders an on/off indicator.
func WriteBool(w io.Writer, name string, value bool) error {
	mark := "no"
	if value {
		mark = "yes"
	}
	_, err := fmt.Fprintf(w, "  %-*s %s\n", nameWidth, name, mark)
	return err
}

// WriteField dispatches to the widget chosen for field.
func WriteField(w io.Writer, field Field) error {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return WriteBar(w, field.Name, v, field.Options)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return WriteBool(w, field.Name, v)
		}
	}
	return WriteLabel(w, field.Name, field.Value, field.Options)
}
