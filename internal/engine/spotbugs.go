package engine

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/wharflab/quill/internal/rules"
)

// ParseSpotBugsXML parses a SpotBugs (or FindBugs) BugCollection:
//
//	<BugCollection><BugInstance type="NP_NULL_ON_SOME_PATH" priority="1">
//	  <Class classname="com.example.Foo"/><Method name="run"/>
//	  <SourceLine start="10" end="12" sourcepath="com/example/Foo.java"/>
//	  <LongMessage>...</LongMessage>
//	</BugInstance></BugCollection>
//
// Violations are "findbugs/<type>" and carry the class and method so that
// class:method:bug exclusions can match them.
func ParseSpotBugsXML(data []byte) ([]rules.Violation, error) {
	doc, err := readDocument(data)
	if err != nil {
		return nil, err
	}
	return spotBugsViolations(doc.Root()), nil
}

func spotBugsViolations(root *etree.Element) []rules.Violation {
	var out []rules.Violation
	for _, bug := range root.SelectElements("BugInstance") {
		class := ""
		var classElem *etree.Element
		if classElem = bug.SelectElement("Class"); classElem != nil {
			class = classElem.SelectAttrValue("classname", "")
		}
		method := ""
		if m := bug.SelectElement("Method"); m != nil {
			method = m.SelectAttrValue("name", "")
		}

		src := bug.SelectElement("SourceLine")
		if src == nil && classElem != nil {
			src = classElem.SelectElement("SourceLine")
		}
		loc := rules.NewFileLocation(classPath(class))
		if src != nil {
			path := src.SelectAttrValue("sourcepath", classPath(class))
			start := atoi(src.SelectAttrValue("start", ""))
			if start > 0 {
				loc = rules.NewLineRangeLocation(path, start, atoi(src.SelectAttrValue("end", "")))
			} else {
				loc = rules.NewFileLocation(path)
			}
		}

		out = append(out, rules.NewViolation(
			loc,
			rules.FindbugsPrefix+bug.SelectAttrValue("type", "UNKNOWN"),
			bugMessage(bug),
			pmdSeverity(bug.SelectAttrValue("priority", "")),
		).WithSubject(class, method))
	}
	return out
}

func bugMessage(bug *etree.Element) string {
	for _, tag := range []string{"LongMessage", "ShortMessage"} {
		if e := bug.SelectElement(tag); e != nil {
			if text := strings.TrimSpace(e.Text()); text != "" {
				return text
			}
		}
	}
	return bug.SelectAttrValue("type", "")
}

// classPath guesses the source path of a top-level class.
func classPath(class string) string {
	if class == "" {
		return ""
	}
	if idx := strings.IndexByte(class, '$'); idx >= 0 {
		class = class[:idx]
	}
	return strings.ReplaceAll(class, ".", "/") + ".java"
}
