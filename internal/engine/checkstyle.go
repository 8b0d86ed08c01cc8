package engine

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/wharflab/quill/internal/rules"
)

// ParseCheckstyleXML parses a Checkstyle-format report:
//
//	<checkstyle><file name="..."><error line="3" severity="error"
//	    message="..." source="...FileTabCharacterCheck"/></file></checkstyle>
//
// PMD and many other tools write this format too; violations are
// namespaced "<checker>/<rule>".
func ParseCheckstyleXML(checker string, data []byte) ([]rules.Violation, error) {
	doc, err := readDocument(data)
	if err != nil {
		return nil, err
	}
	return checkstyleViolations(checker, doc.Root()), nil
}

func checkstyleViolations(checker string, root *etree.Element) []rules.Violation {
	var out []rules.Violation
	for _, file := range root.SelectElements("file") {
		name := file.SelectAttrValue("name", "")
		for _, e := range file.SelectElements("error") {
			line := atoi(e.SelectAttrValue("line", ""))
			loc := rules.NewFileLocation(name)
			if line > 0 {
				loc = rules.NewLineLocation(name, line)
			}
			out = append(out, rules.NewViolation(
				loc,
				checker+"/"+ruleName(e.SelectAttrValue("source", "unknown")),
				e.SelectAttrValue("message", ""),
				severityOf(e.SelectAttrValue("severity", "error")),
			))
		}
	}
	return out
}

// ParsePMDXML parses PMD's native report format:
//
//	<pmd><file name="..."><violation beginline="3" endline="5"
//	    rule="UnusedImports" externalInfoUrl="...">message</violation></file></pmd>
func ParsePMDXML(checker string, data []byte) ([]rules.Violation, error) {
	doc, err := readDocument(data)
	if err != nil {
		return nil, err
	}
	return pmdViolations(checker, doc.Root()), nil
}

func pmdViolations(checker string, root *etree.Element) []rules.Violation {
	var out []rules.Violation
	for _, file := range root.SelectElements("file") {
		name := file.SelectAttrValue("name", "")
		for _, e := range file.SelectElements("violation") {
			begin := atoi(e.SelectAttrValue("beginline", ""))
			end := atoi(e.SelectAttrValue("endline", ""))
			loc := rules.NewFileLocation(name)
			if begin > 0 {
				loc = rules.NewLineRangeLocation(name, begin, end)
			}
			v := rules.NewViolation(
				loc,
				checker+"/"+e.SelectAttrValue("rule", "unknown"),
				strings.TrimSpace(e.Text()),
				pmdSeverity(e.SelectAttrValue("priority", "")),
			).WithDocURL(e.SelectAttrValue("externalInfoUrl", ""))
			if class := e.SelectAttrValue("class", ""); class != "" {
				if pkg := e.SelectAttrValue("package", ""); pkg != "" {
					class = pkg + "." + class
				}
				v = v.WithSubject(class, e.SelectAttrValue("method", ""))
			}
			out = append(out, v)
		}
	}
	return out
}

// pmdSeverity maps PMD priorities 1 (high) .. 5 (low).
func pmdSeverity(priority string) rules.Severity {
	switch atoi(priority) {
	case 3:
		return rules.SeverityWarning
	case 4:
		return rules.SeverityInfo
	case 5:
		return rules.SeverityStyle
	default:
		return rules.SeverityError
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
