package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"rf/internal/cli"
)

func Test_Open_No_Launch_Records_Event(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("projects")

	stdout := c.MustRun("open", "--no-launch", path)
	cli.AssertContains(t, stdout, "opened: "+path)

	cli.AssertContains(t, c.ReadHistory(), path)
	cli.AssertContains(t, c.ReadHistory(), `"count": 1`)
}

func Test_Open_Twice_Increments_Count(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.AddRecent("projects")

	c.MustRun("open", "--no-launch", path)
	c.MustRun("open", "--no-launch", path)

	cli.AssertContains(t, c.ReadHistory(), `"count": 2`)
}

func Test_Open_Relative_Path_Resolves_Against_Cwd(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := c.MkFolder("projects")

	stdout := c.MustRun("open", "--no-launch", "projects")
	cli.AssertContains(t, stdout, "opened: "+path)
}

func Test_Open_Missing_Path_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("open", "--no-launch", "/does/not/exist")
	cli.AssertContains(t, stderr, "not found")
}

func Test_Open_File_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	dir := c.MkFolder("docs")

	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	stderr := c.MustFail("open", "--no-launch", file)
	cli.AssertContains(t, stderr, "not a directory")
}

func Test_Open_No_Args_Fails(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("open")
	cli.AssertContains(t, stderr, "path")
}

func Test_Open_Folder_Outside_Recent_List_Still_Records(t *testing.T) {
	t.Parallel()

	// Opening a folder never observed in the recent dir records usage; it
	// shows up ranked once the recent dir learns about it.
	c := cli.NewCLI(t)
	path := c.MkFolder("fresh")

	c.MustRun("open", "--no-launch", path)
	cli.AssertContains(t, c.ReadHistory(), path)
}
