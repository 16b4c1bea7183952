package main

import (
	"bytes"
	"database/sql"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studio/core"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	validate, _ := core.NewValidator()
	out := new(bytes.Buffer)
	return &commandLine{
		out:      out,
		validate: validate,
		openDB:   func() (*sql.DB, error) { return nil, nil },
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, out.String())
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, out := setup(t)

	var ran []string
	origRun := gooseRunFunc
	defer func() { gooseRunFunc = origRun }()
	gooseRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	runTests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "cohorts", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	})
	assert.Equal(t, []string{"up", "up-by-one", "up-to", "down", "down-to", "redo", "reset", "status", "version", "create", "fix"}, ran)
}

func Test_commandLine_migrate_dbError(t *testing.T) {
	cli, _ := setup(t)
	cli.openDB = func() (*sql.DB, error) { return nil, sql.ErrConnDone }

	assert.Equal(t, sql.ErrConnDone, cli.run([]string{"admin", "migrate", "up"}))
}

func Test_commandLine_validate(t *testing.T) {
	cli, out := setup(t)

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0o600))
		return path
	}
	valid := write("valid.json", `{"tab_title": " Experiment ", "groups": [{"name": "A"}, {"name": "B"}]}`)
	noName := write("noname.json", `{"tab_title": "", "groups": [{"name": "A"}]}`)
	blankGroups := write("blank.json", `{"tab_title": "Experiment", "groups": [{"name": "A"}, {"name": " "}, {"name": ""}]}`)
	malformed := write("malformed.json", `{"tab_title": `)

	runTests(t, cli, out, []cliTest{
		{name: "no file", args: []string{"validate"}, wantErr: errHelp},
		{name: "valid", args: []string{"validate", "-file", valid}, wantOut: "valid: \" Experiment \" (2 groups)\n"},
		{
			name: "no name", args: []string{"validate", "-file", noName},
			wantErrStr: "Group Configuration name is required",
			wantOut:    "invalid: Group Configuration name is required\n  name: Group Configuration name is required\n",
		},
		{
			name: "blank groups", args: []string{"validate", "-file", blankGroups},
			wantErrStr: "All groups must have a name.",
			wantOut:    "invalid: All groups must have a name.\n  groups[1]: Group name is required\n  groups[2]: Group name is required\n",
		},
	})

	err := cli.run([]string{"admin", "validate", "-file", malformed})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing "+malformed)

	err = cli.run([]string{"admin", "validate", "-file", filepath.Join(dir, "missing.json")})
	assert.Error(t, err)
}
