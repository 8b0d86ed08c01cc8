package puzzleformat

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"

	"github.com/wharflab/quill/internal/testutil"
)

func TestMetadata(t *testing.T) {
	t.Parallel()
	snaps.MatchStandaloneJSON(t, New().Metadata())
}

func TestCheck(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, New(), []testutil.RuleTestCase{
		{
			Name: "valid puzzle",
			Content: `/**
 * Sample.
 * @todo #12:30min Implement the retry policy. The body continues
 *  on the next line with one extra space.
 * @since 1.0
 */
class Sample {
}
`,
			WantViolations: 0,
		},
		{
			Name: "valid puzzle closing the comment",
			Content: `/**
 * @todo #gh-7! Rename this class
 *  before the release */
class Sample {
}
`,
			WantViolations: 0,
		},
		{
			Name: "lowercase text",
			Content: `/**
 * @todo #12 implement it
 */
class Sample {
}
`,
			WantViolations: 1,
			WantLines:      []int{2},
			WantMessages:   []string{"@todo tag has wrong format"},
		},
		{
			Name: "missing ticket",
			Content: `/**
 * @todo Implement it
 */
class Sample {
}
`,
			WantViolations: 1,
			WantMessages:   []string{"@todo tag has wrong format"},
		},
		{
			Name: "bad estimate unit",
			Content: `/**
 * @todo #12:30years Implement it
 */
class Sample {
}
`,
			WantViolations: 1,
		},
		{
			Name: "continuation without the extra space",
			Content: `/**
 * @todo #12 Implement the retry policy. The body continues
 * on the next line without the extra space
 *   and then with too many spaces.
 *
 * Unrelated text.
 */
class Sample {
}
`,
			WantViolations: 4,
			WantLines:      []int{3, 4, 5, 6},
			WantMessages:   []string{"One space indentation expected", "One space indentation expected"},
		},
		{
			Name: "blank javadoc line does not end the body",
			Content: `/**
 * @todo #12 Implement it
 *
 * unrelated text
 */
class Sample {
}
`,
			WantViolations: 2,
			WantLines:      []int{3, 4},
			WantMessages:   []string{"One space indentation expected", "One space indentation expected"},
		},
		{
			Name: "puzzle in a line comment",
			Content: `class Sample {
    // @todo #12 Implement it
}
`,
			WantViolations: 2,
			WantLines:      []int{2, 2},
			WantMessages:   []string{"@todo tag has wrong format", "@todo puzzles are allowed only in javadoc blocks"},
		},
		{
			Name: "puzzle in a block comment",
			Content: `class Sample {
    /*
     * @todo #12 Implement it
     */
}
`,
			WantViolations: 1,
			WantLines:      []int{3},
			WantMessages:   []string{"@todo puzzles are allowed only in javadoc blocks"},
		},
	})
}

func TestTerminates(t *testing.T) {
	t.Parallel()
	assert.True(t, terminates("*/"))
	assert.True(t, terminates("*"))
	assert.True(t, terminates("* @return Value"))
	assert.True(t, terminates("int x;"))
	assert.False(t, terminates("*  more text"))
	assert.False(t, terminates("* more text"))
}
