package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"rf/internal/cli"
)

func Test_Classify_Single_Folder(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.MkFolder("github-demo")

	if err := os.WriteFile(filepath.Join(path, "main.go"), []byte("package main"), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout := c.MustRun("classify", "--no-cache", path)
	cli.AssertContains(t, stdout, "[开发项目]")
	cli.AssertContains(t, stdout, "开发")

	cli.AssertContains(t, c.ReadHistory(), "[开发项目]")
}

func Test_Classify_Relative_Path(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MkFolder("office-reports")

	stdout := c.MustRun("classify", "--no-cache", "office-reports")
	cli.AssertContains(t, stdout, "[工作文档]")
}

func Test_Classify_Unmatched_Folder_Gets_Fallback(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.MkFolder("xyzzy")

	stdout := c.MustRun("classify", "--no-cache", path)
	cli.AssertContains(t, stdout, "[其他] 普通")
}

func Test_Classify_No_Path_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("classify", "--no-cache")
	cli.AssertContains(t, stderr, "path")
}

func Test_Classify_All_Sweeps_Recent_List(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.AddRecent("github-one")
	c.AddRecent("office-two")

	stdout := c.MustRun("classify", "--all", "--no-cache")
	cli.AssertContains(t, stdout, "classified 2 of 2 folders")

	history := c.ReadHistory()
	cli.AssertContains(t, history, "[开发项目]")
	cli.AssertContains(t, history, "[工作文档]")
}

func Test_Classify_All_Skips_Manual_Comments(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.AddRecent("github-one")
	pinned := c.AddRecent("office-two")

	c.MustRun("comment", pinned, "pinned note")

	stdout := c.MustRun("classify", "--all", "--no-cache")
	cli.AssertContains(t, stdout, "classified 1 of 2 folders")

	cli.AssertContains(t, c.ReadHistory(), "pinned note")
}

func Test_Classify_With_Cache_Creates_Index(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.MkFolder("github-demo")

	c.MustRun("classify", path)

	if _, err := os.Stat(filepath.Join(c.DataDir(), "index.db")); err != nil {
		t.Errorf("scan cache not created: %v", err)
	}
}

func Test_Classify_Cached_Result_Is_Stable(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.MkFolder("github-demo")

	first := c.MustRun("classify", path)
	second := c.MustRun("classify", path)

	if first != second {
		t.Errorf("cached classification differs:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func Test_Classify_All_Prune_Reports(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.AddRecent("github-one")

	// Prime the cache with a folder that then leaves the recent list.
	stray := c.MkFolder("stray")
	c.MustRun("classify", stray)

	stdout := c.MustRun("classify", "--all", "--prune")
	cli.AssertContains(t, stdout, "pruned 1 cached scans")
}

func Test_Classify_Usage_Tags_From_Open_History(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("github-demo")

	for range 5 {
		c.MustRun("open", "--no-launch", path)
	}

	stdout := c.MustRun("classify", "--no-cache", path)
	cli.AssertContains(t, stdout, "经常")
	cli.AssertContains(t, stdout, "今天")
}
