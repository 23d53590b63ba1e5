// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ForgefileNotFoundId Id = iota + 1
	ForgefileParseErrorId
	TaskNotFoundId
	SourceMissingId
	InterpreterNotFoundId
	InstallFailedId
	RenderFailedId
	ViewerLaunchFailedId
	ShellNotFoundId
	DependencyCycleId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	forgefileNotFoundIssue = &Issue{
		id: ForgefileNotFoundId,
		mdMsg: `
# No forgefile found!

spikeforge looks for a ` + "`forgefile.cue`" + ` in the current directory.

## Things you can try:
- Run this from the directory that contains the forgefile
- Create a starter forgefile:
~~~
$ spikeforge init
~~~
- Point at an explicit file with --file`,
	}

	forgefileParseErrorIssue = &Issue{
		id: ForgefileParseErrorId,
		mdMsg: `
# Forgefile parse error!

Your forgefile.cue has invalid syntax or does not match the schema.

## Things you can try:
- Check the CUE syntax near the location in the error above
- Compare against a freshly generated file:
~~~
$ spikeforge init --force
~~~`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The named task is not declared in the forgefile.

## Things you can try:
- List the available tasks:
~~~
$ spikeforge run
~~~
- Check the spelling of the task name`,
	}

	sourceMissingIssue = &Issue{
		id: SourceMissingId,
		mdMsg: `
# Source file missing!

A task declares a source file that does not exist, so staleness
cannot be evaluated.

## Things you can try:
- Check the 'sources' list in your forgefile
- Restore the missing file (e.g., the render script)`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Python interpreter not found!

The render task needs a Python interpreter on your PATH.

## Things you can try:
- Install Python 3 (python.org or your package manager)
- Point spikeforge at a specific binary in config.cue:
~~~cue
python_bin: "/usr/local/bin/python3.12"
~~~`,
	}

	installFailedIssue = &Issue{
		id: InstallFailedId,
		mdMsg: `
# Dependency install failed!

The pip install step exited with a non-zero status.

## Things you can try:
- Re-run with --verbose to see the full pip output
- Check that requirements.txt is valid
- Upgrade pip: ` + "`python3 -m pip install --upgrade pip`" + ``,
	}

	renderFailedIssue = &Issue{
		id: RenderFailedId,
		mdMsg: `
# Render failed!

The render script exited with a non-zero status, so the target
artifact was not produced (or is incomplete).

## Things you can try:
- Re-run with --verbose to see the interpreter output
- Run the script directly to debug:
~~~
$ python3 illustrate.py
~~~`,
	}

	viewerLaunchFailedIssue = &Issue{
		id: ViewerLaunchFailedId,
		mdMsg: `
# Could not open the image!

The native viewer command failed to launch.

## Things you can try:
- Open the file manually with your image viewer
- Override the opener in config.cue:
~~~cue
opener: command: "feh"
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a suitable shell for the 'native' runtime.

## Shells we look for:
- Linux/macOS: $SHELL, bash, sh
- Windows: pwsh, powershell, cmd

## Things you can try:
- Install bash or another POSIX shell
- Set the SHELL environment variable
- Use the 'virtual' runtime instead (built-in shell):
~~~cue
default_runtime: "virtual"
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Your task dependencies form a cycle, which would cause infinite execution.

## Example of a cycle:
~~~cue
tasks: [
  {name: "a", depends_on: ["b"]},
  {name: "b", depends_on: ["a"]},  // Cycle: a -> b -> a
]
~~~

## Things you can try:
- Review the depends_on fields in your forgefile
- Remove the circular dependency`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration load failed!

Your config.cue could not be read or validated. spikeforge falls
back to built-in defaults when this happens.

## Things you can try:
- Check the config file location:
~~~
$ spikeforge config path
~~~
- Validate the CUE syntax of the file
- Delete the file to start from defaults`,
	}

	issues = map[Id]*Issue{
		forgefileNotFoundIssue.Id():   forgefileNotFoundIssue,
		forgefileParseErrorIssue.Id(): forgefileParseErrorIssue,
		taskNotFoundIssue.Id():        taskNotFoundIssue,
		sourceMissingIssue.Id():       sourceMissingIssue,
		interpreterNotFoundIssue.Id(): interpreterNotFoundIssue,
		installFailedIssue.Id():       installFailedIssue,
		renderFailedIssue.Id():        renderFailedIssue,
		viewerLaunchFailedIssue.Id():  viewerLaunchFailedIssue,
		shellNotFoundIssue.Id():       shellNotFoundIssue,
		dependencyCycleIssue.Id():     dependencyCycleIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
