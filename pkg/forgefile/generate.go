// SPDX-License-Identifier: MPL-2.0

package forgefile

import (
	"fmt"
	"strings"
)

// Default artifact names for the segment-tree spike visualization project.
// `spikeforge init` emits a forgefile wired to these; projects with other
// layouts edit the generated file.
const (
	DefaultScript       = "illustrate.py"
	DefaultTarget       = "segment-tree-spikes.gif"
	DefaultRequirements = "requirements.txt"
)

// DefaultTasks returns the starter task set: a render task producing the GIF
// and a phony format task that rewrites the script in place.
func DefaultTasks() []Task {
	return []Task{
		{
			Name:        "render",
			Description: "Install Python deps and render the animation",
			Target:      DefaultTarget,
			Sources:     []string{DefaultScript, DefaultRequirements},
			Script: "python3 -m pip install -r " + DefaultRequirements + "\n" +
				"python3 " + DefaultScript,
		},
		{
			Name:        "format",
			Description: "Reformat the render script in place",
			Script: "python3 -m pip install black\n" +
				"python3 -m black " + DefaultScript,
		},
	}
}

// Generate renders tasks as forgefile.cue content. The output round-trips
// through Parse.
func Generate(tasks []Task) string {
	var b strings.Builder
	b.WriteString("// Task manifest for spikeforge.\n")
	b.WriteString("// Run 'spikeforge run' to list tasks.\n\n")
	b.WriteString("tasks: [\n")
	for i := range tasks {
		writeTask(&b, &tasks[i])
	}
	b.WriteString("]\n")
	return b.String()
}

// GenerateDefault renders the starter forgefile.
func GenerateDefault() string {
	return Generate(DefaultTasks())
}

func writeTask(b *strings.Builder, t *Task) {
	b.WriteString("\t{\n")
	fmt.Fprintf(b, "\t\tname: %q\n", t.Name)
	if t.Description != "" {
		fmt.Fprintf(b, "\t\tdescription: %q\n", t.Description)
	}
	if t.Target != "" {
		fmt.Fprintf(b, "\t\ttarget: %q\n", t.Target)
	}
	if len(t.Sources) > 0 {
		b.WriteString("\t\tsources: [")
		for i, s := range t.Sources {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q", s)
		}
		b.WriteString("]\n")
	}
	writeScript(b, t.Script)
	if t.Runtime != "" {
		fmt.Fprintf(b, "\t\truntime: %q\n", t.Runtime)
	}
	if len(t.DependsOn) > 0 {
		b.WriteString("\t\tdepends_on: [")
		for i, d := range t.DependsOn {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%q", d)
		}
		b.WriteString("]\n")
	}
	b.WriteString("\t},\n")
}

// writeScript emits multi-line scripts as CUE multi-line strings so the
// generated file stays readable.
func writeScript(b *strings.Builder, script string) {
	if !strings.Contains(script, "\n") {
		fmt.Fprintf(b, "\t\tscript: %q\n", script)
		return
	}
	b.WriteString("\t\tscript: \"\"\"\n")
	for _, line := range strings.Split(script, "\n") {
		b.WriteString("\t\t\t")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\t\t\t\"\"\"\n")
}
