package graph_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/citrine/internal/presentation/graph"
	"github.com/aretw0/citrine/pkg/operation"
	"github.com/aretw0/citrine/pkg/schema"
)

func noop(ctx context.Context, c *operation.Context) (operation.Outcome, error) {
	return operation.Continue, nil
}

func TestGenerateMermaid(t *testing.T) {
	op := operation.New("Place-Order").
		ContractFunc(func(b *schema.Builder) { b.Attribute("sku") }).
		Step("reserve_stock", noop).
		Pass("notify.warehouse", noop).
		Failure("release_stock", noop).
		Failure("alert", noop)

	out := graph.GenerateMermaid(op, nil)

	contains := []string{
		"graph TD\n",
		"Place_Order((\"Place-Order\"))",
		"step_validate_contract{{\"validate_contract\"}}",
		"step_reserve_stock[\"reserve_stock\"]",
		"pass_notify_warehouse[/\"notify.warehouse\"/]",
		"failure_release_stock[[\"release_stock\"]]",
		"Place_Order --> step_validate_contract",
		"step_reserve_stock -. \"fail\" .-> failure_release_stock",
		"pass_notify_warehouse --> success_end",
		"failure_release_stock --> failure_alert",
		"failure_alert --> failure_end",
	}
	for _, want := range contains {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\ngot:\n%s", want, out)
		}
	}
	if strings.Contains(out, "classDef") {
		t.Errorf("expected no overlay styles without overlay")
	}
}

func TestGenerateMermaid_NoFailureTasks(t *testing.T) {
	op := operation.New("Simple").Step("work", noop)
	out := graph.GenerateMermaid(op, nil)

	if !strings.Contains(out, "step_work -. \"fail\" .-> failure_end") {
		t.Errorf("expected steps to branch to the failure terminal, got:\n%s", out)
	}
}

func TestGenerateMermaid_TraceOverlay(t *testing.T) {
	overlay := &graph.Overlay{}
	op := operation.New("Traced", operation.WithHooks(graph.Trace(overlay))).
		Step("load", noop).
		Step("save", func(ctx context.Context, c *operation.Context) (operation.Outcome, error) {
			return operation.Continue, errors.New("disk full")
		}).
		Step("never", noop).
		Failure("rollback", noop)

	op.Call(context.Background(), nil)

	if got := strings.Join(overlay.VisitedTasks, ","); got != "load,save,rollback" {
		t.Fatalf("unexpected trace %q", got)
	}
	if overlay.FailedTask != "save" {
		t.Fatalf("expected failed task save, got %q", overlay.FailedTask)
	}

	out := graph.GenerateMermaid(op, overlay)
	for _, want := range []string{
		"class step_load visited;",
		"class failure_rollback visited;",
		"class step_save failed;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\ngot:\n%s", want, out)
		}
	}
	if strings.Contains(out, "class step_never") {
		t.Errorf("unvisited task must not be styled")
	}
}
