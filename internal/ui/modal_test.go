package ui

import (
	"strings"
	"testing"

	"github.com/muurk/modalstate/internal/view"
)

func mustRender(t *testing.T, count int, hint bool, summary string) *view.Descriptor {
	t.Helper()
	desc, err := view.Render(count, hint, summary)
	if err != nil {
		t.Fatal(err)
	}
	return desc
}

func TestToMarkdown(t *testing.T) {
	tests := map[string]string{
		"press *Select All* now": "press **Select All** now",
		"*Selected:* []":         "**Selected:** []",
		"no markup":              "no markup",
	}
	for in, want := range tests {
		if got := ToMarkdown(in); got != want {
			t.Errorf("ToMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderModal_DefaultsToPreChecked(t *testing.T) {
	out := RenderModal(mustRender(t, 3, true, ""), ModalOptions{Width: 80})

	for _, want := range []string{"[x] 0", "[x] 1", "[x] 2", "Checkbox View State", "Select All", "Submit"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderModal_HostSelection(t *testing.T) {
	out := RenderModal(mustRender(t, 3, true, `["1"]`), ModalOptions{
		Width:    80,
		Checked:  []string{"1"},
		ShowHint: true,
	})

	for _, want := range []string{"[ ] 0", "[x] 1", "[ ] 2", "(initial)", `["1"]`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderModal_NoHintMarkers(t *testing.T) {
	out := RenderModal(mustRender(t, 2, false, ""), ModalOptions{Width: 80, Checked: []string{}, ShowHint: true})
	if strings.Contains(out, "(initial)") {
		t.Errorf("no option should be marked without the hint:\n%s", out)
	}
	if strings.Contains(out, CheckedMarker) {
		t.Errorf("nothing should be checked:\n%s", out)
	}
}

func TestMarkdown_Plain(t *testing.T) {
	md, err := NewMarkdown(60, false)
	if err != nil {
		t.Fatalf("NewMarkdown() error = %v", err)
	}
	out := md.Render("press *Select All*")
	if !strings.Contains(out, "Select All") {
		t.Errorf("Render() = %q", out)
	}
}

func TestMarkdown_NilRenderer(t *testing.T) {
	var md *Markdown
	if got := md.Render("*x*"); got != "*x*" {
		t.Errorf("nil renderer should pass text through, got %q", got)
	}
}
