package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actualize/actualize/internal/catalog"
)

// resetFlags clears values left behind by a previous Execute.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cli struct {
	t      *testing.T
	dbPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("ACTUALIZE_DB", "")
	return &cli{t: t, dbPath: filepath.Join(home, "actualize.db")}
}

func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--db", c.dbPath}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandTree(t *testing.T) {
	want := []string{"practice", "flashcards", "stats", "lesson", "profile", "settings", "report", "serve", "reset", "version"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	assert.True(t, lessonCmd.HasSubCommands())
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "actualize "), out)
}

func TestLessonCompleteAndList(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	lesson := cat.Lessons()[0]

	c := newCLI(t)
	out, err := c.run("", "lesson", "complete", lesson.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed "+lesson.ID)

	out, err = c.run("", "lesson", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "1/56 lessons completed")

	_, err = c.run("", "lesson", "complete", "no-such-lesson")
	assert.ErrorContains(t, err, "unknown lesson")
}

func TestProfile(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Student")
	assert.Contains(t, out, "32/36")
	assert.Contains(t, out, "not set")

	out, err = c.run("", "profile", "--name", "Ada", "--target", "34", "--test-date", "2027-06-12")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "34/36")
	assert.Contains(t, out, "2027-06-12")

	out, err = c.run("", "profile", "--clear-test-date")
	require.NoError(t, err)
	assert.Contains(t, out, "not set")
	assert.Contains(t, out, "Ada")
}

func TestProfile_Rejected(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "profile", "--target", "40")
	assert.ErrorContains(t, err, "targetScore")

	_, err = c.run("", "profile", "--test-date", "June 12")
	assert.ErrorContains(t, err, "YYYY-MM-DD")

	_, err = c.run("", "profile", "--test-date", "2027-06-12", "--clear-test-date")
	assert.Error(t, err)
}

func TestSettings(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "settings", "--extended-time")
	require.NoError(t, err)
	assert.Contains(t, out, "Extended time  on")
	assert.Contains(t, out, "Dark mode      off")

	out, err = c.run("", "settings", "--dark-mode")
	require.NoError(t, err)
	assert.Contains(t, out, "Extended time  on")
	assert.Contains(t, out, "Dark mode      on")
}

func TestStats(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "profile", "--name", "Ada")
	require.NoError(t, err)

	out, err := c.run("", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "Plan progress")
	assert.Contains(t, out, "Estimated score          --")
}

func TestReport(t *testing.T) {
	c := newCLI(t)
	dir := t.TempDir()

	out, err := c.run("", "report", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Report: ")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".md"))
}

func TestReset(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "profile", "--name", "Ada")
	require.NoError(t, err)

	out, err := c.run("no\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted.")

	out, err = c.run("", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")

	out, err = c.run("", "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress reset.")

	out, err = c.run("", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Student")
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()
	c := &cobra.Command{}
	c.Flags().String("db", "", "")

	p, err := resolveDBPath(c, filepath.Join(dir, "cfg", "a.db"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cfg", "a.db"), p)
	assert.DirExists(t, filepath.Join(dir, "cfg"))

	require.NoError(t, c.Flags().Set("db", filepath.Join(dir, "flag", "b.db")))
	p, err = resolveDBPath(c, filepath.Join(dir, "cfg", "a.db"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag", "b.db"), p)
}
