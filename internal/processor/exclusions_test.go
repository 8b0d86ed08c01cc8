package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/exclude"
	"github.com/wharflab/quill/internal/rules"
)

func TestExclusionFilter(t *testing.T) {
	t.Parallel()
	matcher, ignored := exclude.New([]string{"checkstyle:/src/gen/.*", "findbugs:Foo::NP_NULL_ON_SOME_PATH"})
	require.Empty(t, ignored)

	violations := []rules.Violation{
		rules.NewViolation(rules.NewLineLocation("src/gen/A.java", 3), "checkstyle/cascade-indentation", "msg", rules.SeverityError),
		rules.NewViolation(rules.NewLineLocation("src/main/B.java", 3), "checkstyle/cascade-indentation", "msg", rules.SeverityError),
		rules.NewViolation(rules.NewLineLocation("src/gen/a.xml", 1), "xml/canonical-format", "msg", rules.SeverityError),
		rules.NewViolation(rules.NewLineLocation("src/main/Foo.java", 9), "findbugs/NP_NULL_ON_SOME_PATH", "msg", rules.SeverityError).
			WithSubject("com.example.Foo", "run"),
		rules.NewViolation(rules.NewLineLocation("src/main/Bar.java", 9), "findbugs/NP_NULL_ON_SOME_PATH", "msg", rules.SeverityError).
			WithSubject("com.example.Bar", "run"),
	}

	result := NewExclusionFilter().Process(violations, NewContext(matcher, config.Default(), nil))

	var files []string
	for _, v := range result {
		files = append(files, v.File())
	}
	assert.Equal(t, []string{"src/main/B.java", "src/gen/a.xml", "src/main/Bar.java"}, files)
}

func TestExclusionFilter_NoMatcher(t *testing.T) {
	t.Parallel()
	violations := []rules.Violation{
		rules.NewViolation(rules.NewLineLocation("A.java", 1), "checkstyle/puzzle-format", "msg", rules.SeverityError),
	}
	result := NewExclusionFilter().Process(violations, NewContext(nil, config.Default(), nil))
	assert.Len(t, result, 1)
}
