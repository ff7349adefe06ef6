package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avitaltamir/quill/internal/tree"
	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code StatusCode
		str  string
	}{
		{StatusUnmodified, " "},
		{StatusModified, "M"},
		{StatusAdded, "A"},
		{StatusDeleted, "D"},
		{StatusRenamed, "R"},
		{StatusUntracked, "?"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.code.String())
		})
	}
}

func TestCodeColumns(t *testing.T) {
	c := Code("AM")
	assert.Equal(t, StatusAdded, c.Staging())
	assert.Equal(t, StatusModified, c.Worktree())
	assert.True(t, c.Has(StatusModified))
	assert.False(t, c.Has(StatusUntracked))
	assert.Equal(t, StatusUnmodified, Code("").Staging())
}

func TestParsePorcelain(t *testing.T) {
	out := strings.Join([]string{
		"M  src/a.c",
		"?? src/b.c",
		" M README.md",
		"R  old.go -> new/name.go",
		`?? "with space\tand tab.txt"`,
		"??",
		"",
		"A  x",
	}, "\n")

	got, err := ParsePorcelain("/repo", strings.NewReader(out))
	require.NoError(t, err)

	assert.Len(t, got, 6)
	assert.Equal(t, Code("M "), got["/repo/src/a.c"])
	assert.Equal(t, Code("??"), got["/repo/src/b.c"])
	assert.Equal(t, Code(" M"), got["/repo/README.md"])
	assert.Equal(t, Code("R "), got["/repo/new/name.go"])
	assert.Equal(t, Code("??"), got["/repo/with space\tand tab.txt"])
	assert.Equal(t, Code("A "), got["/repo/x"])
}

func TestParsePorcelainEmpty(t *testing.T) {
	got, err := ParsePorcelain("/repo", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code Code
		want Flag
	}{
		{"M ", FlagModified},
		{" M", FlagModified},
		{"AM", FlagModified},
		{"A ", FlagAdded},
		{"??", FlagUntracked},
		{"D ", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code))
		})
	}
}

func TestFlagPresentation(t *testing.T) {
	assert.Equal(t, "M", FlagModified.Letter())
	assert.Equal(t, "A", FlagAdded.Letter())
	assert.Equal(t, "U", FlagUntracked.Letter())
	assert.Equal(t, ColorModified, (FlagModified | FlagUntracked).Color())
	assert.Equal(t, ColorAdded, FlagUntracked.Color())
	assert.Empty(t, Flag(0).Color())
}

func annotatedTree() (*tree.Model, map[string]tree.NodeID) {
	m := tree.New()
	ids := map[string]tree.NodeID{}
	ids["src"] = m.Append(tree.Root, tree.KindFolder, "src", "/r/src")
	ids["docs"] = m.Append(tree.Root, tree.KindFolder, "docs", "/r/docs")
	ids["a.c"] = m.Append(ids["src"], tree.KindFile, "a.c", "/r/src/a.c")
	ids["b.c"] = m.Append(ids["src"], tree.KindFile, "b.c", "/r/src/b.c")
	ids["new.md"] = m.Append(ids["docs"], tree.KindFile, "new.md", "/r/docs/new.md")
	ids["clean"] = m.Append(tree.Root, tree.KindFile, "clean", "/r/clean")
	return m, ids
}

func deco(m *tree.Model, id tree.NodeID) tree.Decoration {
	n, _ := m.Node(id)
	return n.Deco
}

func TestAnnotateBubblesColorWithoutLetter(t *testing.T) {
	m, ids := annotatedTree()
	status, err := ParsePorcelain("/r", strings.NewReader("M  src/a.c\n?? src/b.c\n?? docs/new.md\n"))
	require.NoError(t, err)

	all := Annotate(m, status)

	assert.Equal(t, FlagModified|FlagUntracked, all)
	assert.Equal(t, tree.Decoration{Color: ColorModified, Letter: "M"}, deco(m, ids["a.c"]))
	assert.Equal(t, tree.Decoration{Color: ColorAdded, Letter: "U"}, deco(m, ids["b.c"]))
	// M outranks U on the common ancestor, which never shows a letter.
	assert.Equal(t, tree.Decoration{Color: ColorModified}, deco(m, ids["src"]))
	assert.Equal(t, tree.Decoration{Color: ColorAdded}, deco(m, ids["docs"]))
	assert.Equal(t, tree.Decoration{}, deco(m, ids["clean"]))
}

func TestAnnotateReplacesPreviousPass(t *testing.T) {
	m, ids := annotatedTree()
	Annotate(m, StatusMap{"/r/src/a.c": "M "})
	require.Equal(t, "M", deco(m, ids["a.c"]).Letter)

	Annotate(m, StatusMap{"/r/docs/new.md": "A "})
	assert.Equal(t, tree.Decoration{}, deco(m, ids["a.c"]))
	assert.Equal(t, tree.Decoration{}, deco(m, ids["src"]))
	assert.Equal(t, tree.Decoration{Color: ColorAdded, Letter: "A"}, deco(m, ids["new.md"]))

	ClearDecorations(m)
	assert.Equal(t, tree.Decoration{}, deco(m, ids["new.md"]))
	assert.Equal(t, tree.Decoration{}, deco(m, ids["docs"]))
}

func TestAnnotateEmptyModel(t *testing.T) {
	assert.Zero(t, Annotate(tree.New(), StatusMap{"/x": "M "}))
}

func TestParseHunks(t *testing.T) {
	out := `diff --git a/f.go b/f.go
index 1..2 100644
--- a/f.go
+++ b/f.go
@@ -3 +3 @@ func main() {
-old
+new
@@ -10,0 +11,2 @@
+added1
+added2
@@ -20,3 +21,0 @@
-gone
`
	hunks, err := ParseHunks(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, []Hunk{
		{OldStart: 3, OldCount: 1, NewStart: 3, NewCount: 1},
		{OldStart: 10, OldCount: 0, NewStart: 11, NewCount: 2},
		{OldStart: 20, OldCount: 3, NewStart: 21, NewCount: 0},
	}, hunks)

	marks := LineMarks(hunks)
	assert.Equal(t, map[int]LineMark{
		3:  MarkModified,
		11: MarkAdded,
		12: MarkAdded,
		21: MarkDeleted,
	}, marks)
}

func TestLineMarksDeletionAtTop(t *testing.T) {
	marks := LineMarks([]Hunk{{OldStart: 1, OldCount: 2, NewStart: 0, NewCount: 0}})
	assert.Equal(t, map[int]LineMark{1: MarkDeleted}, marks)
}

func TestOpenRepo(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		_, err := OpenRepo(t.TempDir())
		assert.ErrorIs(t, err, ErrNotRepository)
	})

	t.Run("subdirectory of an unborn repository", func(t *testing.T) {
		root := t.TempDir()
		_, err := gogit.PlainInit(root, false)
		require.NoError(t, err)
		sub := filepath.Join(root, "pkg")
		require.NoError(t, os.Mkdir(sub, 0o755))

		info, err := OpenRepo(sub)
		require.NoError(t, err)
		assert.Equal(t, root, info.Toplevel)
		assert.Contains(t, []string{"master", "main"}, info.Branch)
	})
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestShellProviderStatusAndDiff(t *testing.T) {
	requireGit(t)

	root := t.TempDir()
	runGit(t, root, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(root, "tracked.txt"), []byte("one\ntwo\n"), 0o644))
	runGit(t, root, "add", "tracked.txt")
	runGit(t, root, "commit", "-q", "-m", "init")

	require.NoError(t, os.WriteFile(filepath.Join(root, "tracked.txt"), []byte("zero\none\nTWO\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "new.txt"), []byte("x"), 0o644))

	p := NewShellProvider()
	status, err := p.Status(t.Context(), root)
	require.NoError(t, err)
	assert.Equal(t, Code(" M"), status[filepath.Join(root, "tracked.txt")])
	assert.Equal(t, Code("??"), status[filepath.Join(root, "sub", "new.txt")])

	hunks, err := p.Diff(t.Context(), root, filepath.Join(root, "tracked.txt"))
	require.NoError(t, err)
	require.NotEmpty(t, hunks)
	marks := LineMarks(hunks)
	assert.Equal(t, MarkAdded, marks[1])
	assert.Equal(t, MarkModified, marks[3])
}

func TestShellProviderStatusOutsideRepository(t *testing.T) {
	p := NewShellProvider()
	_, err := p.Status(t.Context(), t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
}
