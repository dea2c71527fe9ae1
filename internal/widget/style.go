package widget

import (
	"html/template"
	"strconv"
	"strings"
)

// decl is one inline CSS declaration.
type decl struct {
	prop  string
	value string
}

// cssValue accepts host-supplied presentation values such as "#000",
// "rgb(10, 20, 30)" or "'Helvetica Neue', Arial, sans-serif". Anything
// that could end the declaration or open a url() is rejected.
func cssValue(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || len(v) > 200 {
		return "", false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(" #%.,()'-_", r):
		default:
			return "", false
		}
	}
	if strings.Contains(strings.ToLower(v), "url(") || strings.Contains(strings.ToLower(v), "expression(") {
		return "", false
	}
	if strings.Count(v, "'")%2 != 0 || strings.Count(v, "(") != strings.Count(v, ")") {
		return "", false
	}
	return v, true
}

// inlineStyle joins the valid declarations; invalid values are dropped so
// the browser falls back to the stylesheet.
func inlineStyle(decls ...decl) template.CSS {
	var b strings.Builder
	for _, d := range decls {
		v, ok := cssValue(d.value)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		b.WriteString(d.prop)
		b.WriteByte(':')
		b.WriteString(v)
	}
	return template.CSS(b.String())
}

func px(n int) string { return strconv.Itoa(n) + "px" }

func justify(alignment string) string {
	switch alignment {
	case "left":
		return "flex-start"
	case "right":
		return "flex-end"
	default:
		return "center"
	}
}

func display(visible bool) string {
	if visible {
		return "flex"
	}
	return "none"
}
