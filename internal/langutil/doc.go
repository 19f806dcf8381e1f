package langutil

import (
	"regexp"
	"strings"
)

// ParsePythonDocParams extracts a name -> description map from a Python
// docstring, recognising whichever of the three conventional styles is
// present (spec §4.2.1): Google-style ("Args:" / "Parameters:" header,
// "name: desc" or "name (type): desc" lines), Sphinx/reST-style
// (":param name: desc" lines anywhere in the docstring), and NumPy-style
// ("Parameters\n----------\nname : type\n    desc" blocks). Per spec §9,
// this is a hand-written structured reader, not a natural-language parser:
// header recognition is style-specific, tag recognition is order-insensitive.
func ParsePythonDocParams(doc string) map[string]string {
	if strings.TrimSpace(doc) == "" {
		return nil
	}
	if m := parseReSTParams(doc); len(m) > 0 {
		return m
	}
	if m := parseNumPyParams(doc); len(m) > 0 {
		return m
	}
	return parseGoogleParams(doc)
}

var restParamLine = regexp.MustCompile(`(?m)^\s*:param\s+(\*{0,2}[A-Za-z_][A-Za-z0-9_]*)\s*:\s*(.*)$`)

func parseReSTParams(doc string) map[string]string {
	matches := restParamLine.FindAllStringSubmatch(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make(map[string]string, len(matches))
	for _, m := range matches {
		out[strings.TrimLeft(m[1], "*")] = strings.TrimSpace(m[2])
	}
	return out
}

var googleHeader = regexp.MustCompile(`(?mi)^\s*(Args|Arguments|Parameters)\s*:\s*$`)
var googleParamLine = regexp.MustCompile(`^\s*(\*{0,2}[A-Za-z_][A-Za-z0-9_]*)\s*(\([^)]*\))?\s*:\s*(.*)$`)

func parseGoogleParams(doc string) map[string]string {
	loc := googleHeader.FindStringIndex(doc)
	if loc == nil {
		return nil
	}
	rest := strings.TrimPrefix(doc[loc[1]:], "\n")
	lines := strings.Split(rest, "\n")
	out := map[string]string{}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			break
		}
		if nextHeader(line) {
			break
		}
		if m := googleParamLine.FindStringSubmatch(line); m != nil {
			out[strings.TrimLeft(m[1], "*")] = strings.TrimSpace(m[3])
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var numpyHeader = regexp.MustCompile(`(?m)^\s*Parameters\s*\n\s*-{3,}\s*$`)
var numpyParamLine = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\s*(:\s*.+)?$`)

func parseNumPyParams(doc string) map[string]string {
	loc := numpyHeader.FindStringIndex(doc)
	if loc == nil {
		return nil
	}
	rest := strings.TrimPrefix(doc[loc[1]:], "\n")
	lines := strings.Split(rest, "\n")
	out := map[string]string{}
	var current string
	for _, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			break
		}
		if nextHeader(raw) {
			break
		}
		if !strings.HasPrefix(raw, "    ") && !strings.HasPrefix(raw, "\t") {
			if m := numpyParamLine.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
				current = m[1]
				out[current] = ""
			}
			continue
		}
		if current != "" {
			out[current] = strings.TrimSpace(strings.TrimSpace(out[current] + " " + raw))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func nextHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, h := range []string{"Returns", "Return", "Raises", "Yields", "Examples", "Note", "Notes"} {
		if strings.HasPrefix(trimmed, h) {
			return true
		}
	}
	return false
}

// DocTags is the result of parsing a C-style doc-block's @-tags, shared
// between the PHP (@param/@return/@throws) and JS/TS (JSDoc) front-ends
// (spec §4.2.2/§4.2.3). Tag parsing is order-insensitive per spec §9.
type DocTags struct {
	Summary string
	Params  map[string]string // name -> description (type stripped)
	Returns string
	Throws  []string
	Flags   map[string]bool // @async, @static, @abstract, @override, ...
	Extra   map[string][]string
}

var tagLine = regexp.MustCompile(`(?m)^[ \t]*\*?[ \t]*@([A-Za-z]+)(.*)$`)
var paramTag = regexp.MustCompile(`^\s*(?:\{[^}]*\}\s*)?(?:(?:[A-Za-z_][A-Za-z0-9_\\]*\s+)?(\*{0,2}\$[A-Za-z_][A-Za-z0-9_]*)|(\*{0,2}[A-Za-z_][A-Za-z0-9_]*))\s*-?\s*(.*)$`)

// ParseDocTags parses a doc-block body (the comment with leading `/**`,
// `*`, `*/` markers already stripped by the caller) into structured tag
// data, recognising @param {type} name - desc (JSDoc) and @param $name
// desc / type $name desc (PHPDoc) shapes, plus @return(s)/@throws and
// boolean marker tags (@async, @static, @abstract, @override, @generator).
func ParseDocTags(body string) DocTags {
	tags := DocTags{Params: map[string]string{}, Flags: map[string]bool{}, Extra: map[string][]string{}}

	firstTag := tagLine.FindStringIndex(body)
	if firstTag != nil {
		tags.Summary = strings.TrimSpace(stripStars(body[:firstTag[0]]))
	} else {
		tags.Summary = strings.TrimSpace(stripStars(body))
	}

	for _, m := range tagLine.FindAllStringSubmatch(body, -1) {
		name := strings.ToLower(m[1])
		rest := strings.TrimSpace(m[2])
		switch name {
		case "param":
			if pm := paramTag.FindStringSubmatch(rest); pm != nil {
				raw := pm[1]
				if raw == "" {
					raw = pm[2]
				}
				pname := strings.TrimLeft(strings.TrimPrefix(raw, "$"), "*")
				tags.Params[pname] = strings.TrimSpace(pm[3])
			}
		case "return", "returns":
			tags.Returns = rest
		case "throws", "exception":
			if rest != "" {
				tags.Throws = append(tags.Throws, rest)
			}
		case "async", "static", "abstract", "override", "generator", "class", "constructor":
			tags.Flags[name] = true
		case "extends", "implements":
			tags.Extra[name] = append(tags.Extra[name], rest)
		default:
			tags.Extra[name] = append(tags.Extra[name], rest)
		}
	}
	return tags
}

var starPrefix = regexp.MustCompile(`(?m)^[ \t]*\*[ \t]?`)

func stripStars(s string) string {
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimSuffix(s, "*/")
	return starPrefix.ReplaceAllString(s, "")
}
