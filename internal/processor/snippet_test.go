package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wharflab/quill/internal/config"
	"github.com/wharflab/quill/internal/rules"
)

const sampleJava = `package com.example;

/**
 * Sample.
 */
public final class Sample {
    protected void run() {
        int a = 1;
        int b = 2;
        int c = 3;
        int d = 4;
        int e = 5;
    }
}
`

const samplePOM = `<?xml version="1.0" encoding="UTF-8"?>
<project>
  <modelVersion>4.0.0</modelVersion>
    <artifactId>sample</artifactId>
</project>
`

const (
	sampleJavaPath = "src/main/java/com/example/Sample.java"
	samplePOMPath  = "pom.xml"
)

func sampleSources() map[string][]byte {
	return map[string][]byte{
		sampleJavaPath: []byte(sampleJava),
		samplePOMPath:  []byte(samplePOM),
	}
}

func TestSnippetAttachment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    rules.Violation
		want string
	}{
		{
			name: "java line",
			v: rules.NewViolation(rules.NewLineLocation(sampleJavaPath, 7),
				"checkstyle/protected-method-in-final-class", "msg", rules.SeverityError),
			want: "    protected void run() {",
		},
		{
			name: "xml line",
			v: rules.NewViolation(rules.NewLineLocation(samplePOMPath, 4),
				"xml/canonical-format", "msg", rules.SeverityError),
			want: "    <artifactId>sample</artifactId>",
		},
		{
			name: "javadoc range",
			v: rules.NewViolation(rules.NewLineRangeLocation(sampleJavaPath, 3, 5),
				"checkstyle/javadoc-location", "msg", rules.SeverityError),
			want: "/**\n * Sample.\n */",
		},
		{
			name: "method range is capped",
			v: rules.NewViolation(rules.NewLineRangeLocation(sampleJavaPath, 7, 13),
				"pmd/UnusedLocalVariable", "msg", rules.SeverityWarning),
			want: "    protected void run() {\n        int a = 1;\n        int b = 2;\n" +
				"        int c = 3;\n        int d = 4;",
		},
		{
			name: "range past end of file",
			v: rules.NewViolation(rules.NewLineRangeLocation(samplePOMPath, 5, 40),
				"xml/canonical-format", "msg", rules.SeverityError),
			want: "</project>",
		},
		{
			name: "row after final newline",
			v: rules.NewViolation(rules.NewLineLocation(samplePOMPath, 6),
				"xml/canonical-format", "msg", rules.SeverityError),
			want: "",
		},
		{
			name: "file level",
			v: rules.NewViolation(rules.NewFileLocation(samplePOMPath),
				"quill/file", "msg", rules.SeverityError),
			want: "",
		},
		{
			name: "line zero",
			v: rules.NewViolation(rules.NewLineLocation(sampleJavaPath, 0),
				"findbugs/NP_NULL_ON_SOME_PATH", "msg", rules.SeverityError),
			want: "",
		},
		{
			name: "source not loaded",
			v: rules.NewViolation(rules.NewLineLocation("src/main/java/com/example/Other.java", 1),
				"checkstyle/cascade-indentation", "msg", rules.SeverityError),
			want: "",
		},
		{
			name: "engine snippet kept",
			v: rules.NewViolation(rules.NewLineLocation(sampleJavaPath, 8),
				"pmd/UnusedLocalVariable", "msg", rules.SeverityWarning).WithSourceCode("int a = 1;"),
			want: "int a = 1;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := NewContext(nil, config.Default(), sampleSources())
			result := NewSnippetAttachment().Process([]rules.Violation{tt.v}, ctx)
			require.Len(t, result, 1)
			assert.Equal(t, tt.want, result[0].SourceCode)
		})
	}
}

func TestSnippetAttachment_DoesNotModifyInput(t *testing.T) {
	t.Parallel()
	in := []rules.Violation{
		rules.NewViolation(rules.NewLineLocation(samplePOMPath, 2), "xml/canonical-format", "msg", rules.SeverityError),
	}
	ctx := NewContext(nil, config.Default(), sampleSources())

	result := NewSnippetAttachment().Process(in, ctx)

	assert.Equal(t, "<project>", result[0].SourceCode)
	assert.Empty(t, in[0].SourceCode)
}
