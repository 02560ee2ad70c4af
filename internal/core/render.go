package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RenderValues carries the per-call inputs a counter template is rendered
// against. Sequence is the already zero-padded reserved value.
type RenderValues struct {
	Date       time.Time
	Company    string
	Site       string
	Sequence   string
	Complement string
}

// Render assembles the formatted document number by walking the ordered
// components. Templates are sparse: the first unset slot ends rendering.
//
// Numeric-typed definitions collapse the assembled string to its leading
// integer, stripping zero padding and any literal separators. A template
// that does not start with digits renders "NaN"; only pure-numeric
// templates are safe under ValueNumeric.
func (d *CounterDefinition) Render(v RenderValues) string {
	var b strings.Builder
	for _, c := range d.Components {
		if c.Type == ComponentUnset {
			break
		}
		b.WriteString(renderComponent(c, d.Chrono, v))
	}
	if d.ValueType == ValueNumeric {
		return collapseNumeric(b.String())
	}
	return b.String()
}

func renderComponent(c CounterComponent, chrono ChronoControl, v RenderValues) string {
	switch c.Type {
	case ComponentConstant:
		return c.Constant
	case ComponentYear:
		switch c.Length {
		case 1:
			return strconv.Itoa(v.Date.Year() % 10)
		case 2:
			return fmt.Sprintf("%02d", v.Date.Year()%100)
		default:
			return fmt.Sprintf("%04d", v.Date.Year())
		}
	case ComponentMonth:
		if c.Length == 3 {
			return strings.ToUpper(v.Date.Month().String()[:3])
		}
		return fmt.Sprintf("%02d", int(v.Date.Month()))
	case ComponentWeek:
		_, week := v.Date.ISOWeek()
		return fmt.Sprintf("%02d", week)
	case ComponentDay:
		switch c.Length {
		case 1:
			return strconv.Itoa(isoWeekday(v.Date))
		case 3:
			return fmt.Sprintf("%03d", v.Date.YearDay())
		default:
			return fmt.Sprintf("%02d", v.Date.Day())
		}
	case ComponentCompany:
		return fitCode(v.Company, c.Length, chrono)
	case ComponentSite:
		return fitCode(v.Site, c.Length, chrono)
	case ComponentSequence:
		return v.Sequence
	case ComponentComplement:
		if c.Length > 0 && len(v.Complement) > c.Length {
			return v.Complement[:c.Length]
		}
		return v.Complement
	default:
		return ""
	}
}

// isoWeekday numbers Monday 1 through Sunday 7.
func isoWeekday(t time.Time) int {
	if wd := int(t.Weekday()); wd != 0 {
		return wd
	}
	return 7
}

// fitCode truncates a company/site code to the component width. Under the
// padded chronological-control mode a short code is filled with
// underscores instead, keeping column positions stable.
func fitCode(code string, length int, chrono ChronoControl) string {
	if length <= 0 {
		return code
	}
	if len(code) > length {
		return code[:length]
	}
	if chrono == ChronoPadded && len(code) < length {
		return code + strings.Repeat("_", length-len(code))
	}
	return code
}

// collapseNumeric re-stringifies the leading integer of s, mirroring a
// parseInt over the whole concatenation: leading zeros and trailing
// non-digits disappear, and a string with no leading digits is "NaN".
func collapseNumeric(s string) string {
	t := strings.TrimSpace(s)
	i := 0
	if i < len(t) && (t[i] == '+' || t[i] == '-') {
		i++
	}
	j := i
	for j < len(t) && t[j] >= '0' && t[j] <= '9' {
		j++
	}
	if j == i {
		return "NaN"
	}
	n, err := strconv.ParseInt(t[:j], 10, 64)
	if err != nil {
		return "NaN"
	}
	return strconv.FormatInt(n, 10)
}
