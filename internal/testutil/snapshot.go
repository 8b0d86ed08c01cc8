package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gkampitakis/ciinfo"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// MatchTextSnapshot compares content against a standalone snapshot file,
// writing raw bytes without any formatting transformation.
//
// go-snaps' MatchStandaloneSnapshot passes content through pretty.Sprint,
// whose tabwriter expands tab bytes into spaces. Canonical XML and rendered
// diffs must match byte for byte, so this helper keeps the exact content.
//
// Follows go-snaps' naming convention for standalone snapshots:
//
//	__snapshots__/<TestName>_1.snap.<ext>
//
// Like go-snaps, a missing snapshot is written on first run outside CI and
// fails inside CI. Set UPDATE_SNAPS=true to rewrite existing files.
func MatchTextSnapshot(tb testing.TB, ext, content string) {
	tb.Helper()

	_, callerFile, _, ok := runtime.Caller(1)
	if !ok {
		tb.Fatal("testutil.MatchTextSnapshot: unable to determine caller")
	}

	name := strings.ReplaceAll(tb.Name(), "/", "_")
	snapFile := filepath.Join(filepath.Dir(callerFile), "__snapshots__", name+"_1.snap."+ext)

	prev, err := os.ReadFile(snapFile)
	if os.Getenv("UPDATE_SNAPS") == "true" || (os.IsNotExist(err) && !ciinfo.IsCI) {
		writeSnapshot(tb, snapFile, content)
		return
	}
	if err != nil {
		tb.Fatalf("snapshot not found: %s\nRun with UPDATE_SNAPS=true to create", snapFile)
	}
	if string(prev) != content {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(string(prev), content, true)
		diffs = dmp.DiffCleanupSemanticLossless(diffs)
		patches := dmp.PatchMake(string(prev), diffs)
		tb.Errorf("snapshot mismatch: %s\n%s", snapFile, dmp.PatchToText(patches))
	}
}

func writeSnapshot(tb testing.TB, snapFile, content string) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(snapFile), 0o750); err != nil {
		tb.Fatalf("mkdir snapshot dir: %v", err)
	}
	if err := os.WriteFile(snapFile, []byte(content), 0o644); err != nil { //nolint:gosec // test-only snapshot
		tb.Fatalf("write snapshot: %v", err)
	}
}
