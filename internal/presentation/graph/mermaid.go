package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/citrine/pkg/operation"
)

// Overlay contains the trace of a run to visualize on the graph.
type Overlay struct {
	VisitedTasks []string
	FailedTask   string
}

// GenerateMermaid produces a Mermaid flowchart of an operation pipeline.
// It applies semantic styling:
// - Contract: {{Hexagon}}
// - Step: [Rectangle]
// - Pass: [/Parallelogram/]
// - Failure: [[Subroutine]]
// Steps and passes chain to the success terminal and branch to the failure
// track, which runs the failure tasks in order.
func GenerateMermaid(op *operation.Operation, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	start := sanitizeMermaidID(op.Name())
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", start, op.Name()))

	var steps, failures []*operation.Task
	for _, t := range op.Tasks() {
		if t.Kind == operation.KindFailure {
			failures = append(failures, t)
		} else {
			steps = append(steps, t)
		}
	}

	failTrack := "failure_end"
	if len(failures) > 0 {
		failTrack = taskID(failures[0])
	}

	prev := start
	for _, t := range steps {
		id := taskID(t)
		opener, closer := "[", "]"
		switch {
		case t.Name == operation.ContractTask:
			opener, closer = "{{", "}}" // Hexagon
		case t.Kind == operation.KindPass:
			opener, closer = "[/", "/]" // Parallelogram
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, t.Name, closer))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
		sb.WriteString(fmt.Sprintf("    %s -. \"fail\" .-> %s\n", id, failTrack))
		prev = id
	}
	sb.WriteString("    success_end((\"Success\"))\n")
	sb.WriteString(fmt.Sprintf("    %s --> success_end\n", prev))

	prev = ""
	for _, t := range failures {
		id := taskID(t)
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, t.Name))
		if prev != "" {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, id))
		}
		prev = id
	}
	sb.WriteString("    failure_end((\"Failure\"))\n")
	if prev != "" {
		sb.WriteString(fmt.Sprintf("    %s --> failure_end\n", prev))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#b71c1c,stroke-width:4px,color:#000;\n")

		kinds := make(map[string]operation.TaskKind)
		for _, t := range op.Tasks() {
			kinds[t.Name] = t.Kind
		}
		visitedSet := make(map[string]bool)
		for _, name := range overlay.VisitedTasks {
			kind, ok := kinds[name]
			if !ok {
				continue
			}
			id := sanitizeMermaidID(kind.String() + "_" + name)
			if !visitedSet[id] {
				visitedSet[id] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
			}
		}

		if kind, ok := kinds[overlay.FailedTask]; ok {
			sb.WriteString(fmt.Sprintf("    class %s failed;\n", sanitizeMermaidID(kind.String()+"_"+overlay.FailedTask)))
		}
	}

	return sb.String()
}

// Trace returns hooks recording the tasks of a run into overlay.
func Trace(overlay *Overlay) operation.Hooks {
	return operation.Hooks{
		OnTaskStart: func(_ context.Context, e *operation.TaskEvent) {
			overlay.VisitedTasks = append(overlay.VisitedTasks, e.Task.Name)
		},
		OnResult: func(_ context.Context, e *operation.ResultEvent) {
			if e.Failed {
				overlay.FailedTask = e.FailedTask
			}
		},
	}
}

func taskID(t *operation.Task) string {
	return sanitizeMermaidID(t.Kind.String() + "_" + t.Name)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
