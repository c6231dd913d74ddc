package cli_test

import (
	"testing"

	"rf/internal/cli"
)

func Test_Comment_Set_And_Show(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("projects")

	stdout := c.MustRun("comment", path, "main", "work", "tree")
	cli.AssertContains(t, stdout, "comment set: "+path)

	cli.AssertContains(t, c.ReadHistory(), "main work tree")

	stdout = c.MustRun("ls", "--long")
	cli.AssertContains(t, stdout, "main work tree")
}

func Test_Comment_Clear(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("projects")

	c.MustRun("comment", path, "temporary note")

	stdout := c.MustRun("comment", path)
	cli.AssertContains(t, stdout, "comment cleared: "+path)

	cli.AssertNotContains(t, c.ReadHistory(), "temporary note")
}

func Test_Comment_Pins_Against_Classify(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("github-demo")

	c.MustRun("comment", path, "my own words")

	stdout := c.MustRun("classify", "--no-cache", path)
	cli.AssertContains(t, stdout, "not stored")

	cli.AssertContains(t, c.ReadHistory(), "my own words")
}

func Test_Comment_Clear_Unpins(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("github-demo")

	c.MustRun("comment", path, "my own words")
	c.MustRun("comment", path)
	c.MustRun("classify", "--no-cache", path)

	cli.AssertContains(t, c.ReadHistory(), "[开发项目]")
}

func Test_Comment_No_Args_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("comment")
	cli.AssertContains(t, stderr, "path")
}

func Test_Comment_Relative_Path_Joins_Variants(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("projects")

	c.MustRun("comment", "projects", "by relative path")
	c.MustRun("open", "--no-launch", path)

	stdout := c.MustRun("ls", "--long", "--filter=projects")
	cli.AssertContains(t, stdout, "by relative path")
}
