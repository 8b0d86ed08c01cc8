package javadoclocation

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

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
			Name: "documented class and members",
			Content: `package com.example;

/**
 * Sample.
 */
public final class Sample {
    /**
     * Count.
     */
    private int count;

    static {
        System.out.println("init");
    }

    /**
     * Ctor.
     */
    public Sample() {
        final int local = 0;
        this.count = local;
    }

    /**
     * Text.
     * @return Text
     */
    @Override
    public String toString() {
        return "";
    }
}
`,
			WantViolations: 0,
		},
		{
			Name: "missing class javadoc",
			Content: `package com.example;

public final class Sample {
}
`,
			WantViolations: 1,
			WantLines:      []int{3},
			WantMessages:   []string{"Problem finding javadoc"},
		},
		{
			Name: "blank lines between javadoc and subject",
			Content: `/**
 * Sample.
 */

public final class Sample {
    /**
     * Run.
     */


    void run() {
    }
}
`,
			WantViolations: 3,
			WantLines:      []int{4, 9, 10},
			WantMessages: []string{
				"Empty line between javadoc and subject",
				"Empty line between javadoc and subject",
				"Empty line between javadoc and subject",
			},
		},
		{
			Name: "previous member's javadoc does not count",
			Content: `/**
 * Sample.
 */
class Sample {
    /**
     * First.
     */
    int first;
    int second;
}
`,
			WantViolations: 1,
			WantLines:      []int{9},
		},
		{
			Name: "comment inside previous method body does not count",
			Content: `/**
 * Sample.
 */
class Sample {
    /**
     * First.
     */
    void first() {
        /*
         */
    }
    void second() {
    }
}
`,
			WantViolations: 1,
			WantLines:      []int{12},
		},
		{
			Name: "nested type members",
			Content: `/**
 * Outer.
 */
class Outer {
    interface Inner {
        /**
         * Run.
         */
        void run();
    }
}
`,
			WantViolations: 1,
			WantLines:      []int{5},
		},
		{
			Name: "second top-level type",
			Content: `/**
 * First.
 */
class First {
}

class Second {
}
`,
			WantViolations: 1,
			WantLines:      []int{7},
		},
		{
			Name: "local variables are not fields",
			Content: `/**
 * Sample.
 */
class Sample {
    /**
     * Run.
     */
    void run() {
        int a = 1;
        String b = "x";
    }
}
`,
			WantViolations: 0,
		},
	})
}
