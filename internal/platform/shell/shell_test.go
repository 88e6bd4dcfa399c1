package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-reversi/internal/registry"

	_ "github.com/vovakirdan/tui-reversi/internal/games/modes"
)

func runShell(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	sh := New(registry.Options{LookAhead: 1}, nil, nil)
	if err := sh.Run(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestShellTranscript(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		not   []string
	}{
		{
			name:  "no game yet",
			input: "PRINT\nMOVE D4\n",
			want:  []string{"Error! No game initialized."},
		},
		{
			name:  "opening move",
			input: "NEW HOTSEAT\nMOVE D4\n",
			want:  []string{"Black moved disk to D4"},
		},
		{
			name:  "case insensitive",
			input: "new hotseat\nmove e5\n",
			want:  []string{"Black moved disk to E5"},
		},
		{
			name:  "illegal move",
			input: "NEW HOTSEAT\nMOVE A1\n",
			want:  []string{"Error! Could not move disk to A1."},
			not:   []string{"moved disk"},
		},
		{
			name:  "malformed cell",
			input: "NEW HOTSEAT\nMOVE Z9\n",
			want:  []string{"Error! Invalid cell format"},
		},
		{
			name:  "wrong argument count",
			input: "NEW\nNEW HOTSEAT\nMOVE\n",
			want:  []string{"Error! Wrong number of arguments."},
		},
		{
			name:  "unknown mode",
			input: "NEW NETWORK\n",
			want:  []string{"Error! Unknown game type: NETWORK"},
		},
		{
			name:  "unknown command",
			input: "JUMP\n",
			want:  []string{"Error! Unknown command: JUMP"},
		},
		{
			name:  "empty line",
			input: "\n",
			want:  []string{"Error! Empty command."},
		},
		{
			name:  "undo",
			input: "NEW HOTSEAT\nUNDO\nMOVE D4\nUNDO\n",
			want:  []string{"Error! Nothing to undo.", "Player's turn: Black"},
		},
		{
			name:  "moves in the opening",
			input: "NEW HOTSEAT\nMOVES\n",
			want:  []string{"D4 D5 E4 E5"},
		},
		{
			name:  "single answers",
			input: "NEW SINGLE\nMOVE D4\n",
			want:  []string{"Black moved disk to D4", "White moved disk to"},
		},
		{
			name:  "help",
			input: "HELP\n",
			want:  []string{"Accepted commands:", "MOVES"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runShell(t, tt.input)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(out, n) {
					t.Errorf("output unexpectedly contains %q:\n%s", n, out)
				}
			}
		})
	}
}

func TestShellPrint(t *testing.T) {
	out := runShell(t, "NEW HOTSEAT\nMOVE D4\nMOVE E4\nPRINT\n")
	for _, w := range []string{"4 ...bw...", "  ABCDEFGH", "Player's turn: Black"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestShellQuitStopsReading(t *testing.T) {
	out := runShell(t, "QUIT\nHELP\n")
	if strings.Contains(out, "Accepted commands:") {
		t.Errorf("command after QUIT was executed:\n%s", out)
	}
	if got := strings.Count(out, prompt); got != 1 {
		t.Errorf("prompt printed %d times, want 1", got)
	}
}

func TestShellStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(registry.Options{}, nil, nil).Run(ctx, strings.NewReader("HELP\n"), &out)
	if err == nil {
		t.Fatal("Run() with cancelled context returned nil")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
