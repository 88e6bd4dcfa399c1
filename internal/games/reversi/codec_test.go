package reversi

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStateJSONRoundTrip(t *testing.T) {
	r := New()
	for _, c := range []Cell{{3, 3}, {3, 4}, {4, 4}, {4, 3}, {3, 5}} {
		if !r.Move(c) {
			t.Fatalf("move to %v rejected", c)
		}
	}
	want := r.State()

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got GameState
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, *want)
	}
}

func TestStateJSONWireForm(t *testing.T) {
	s := NewGameState()
	place(s, Black, Cell{0, 7})
	place(s, White, Cell{7, 0})
	s.SetWinner(White)
	s.SetPhase(PhaseFinished)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode raw: %v", err)
	}
	if raw["phase"] != "FINISHED" {
		t.Errorf("phase = %v", raw["phase"])
	}
	if raw["currentPlayer"] != "BLACK" {
		t.Errorf("currentPlayer = %v", raw["currentPlayer"])
	}
	if raw["winner"] != "WHITE" {
		t.Errorf("winner = %v", raw["winner"])
	}
	field, _ := raw["field"].([]any)
	if len(field) != Size {
		t.Fatalf("field has %d rows", len(field))
	}
	if field[0] != "b......." {
		t.Errorf("top row = %v", field[0])
	}
	if field[Size-1] != ".......w" {
		t.Errorf("bottom row = %v", field[Size-1])
	}
}

func TestStateJSONRunningHasNullWinner(t *testing.T) {
	data, err := json.Marshal(NewGameState())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"winner":null`) {
		t.Errorf("running state encoded a winner: %s", data)
	}
}

func TestStateJSONRejectsMalformed(t *testing.T) {
	rows := func(first string) string {
		lines := []string{`"` + first + `"`}
		for range Size - 1 {
			lines = append(lines, `"........"`)
		}
		return "[" + strings.Join(lines, ",") + "]"
	}

	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `{`},
		{name: "unknown phase", input: `{"phase":"PAUSED","currentPlayer":"BLACK","field":` + rows("........") + `}`},
		{name: "unknown player", input: `{"phase":"RUNNING","currentPlayer":"RED","field":` + rows("........") + `}`},
		{name: "short field", input: `{"phase":"RUNNING","currentPlayer":"BLACK","field":["........"]}`},
		{name: "short row", input: `{"phase":"RUNNING","currentPlayer":"BLACK","field":` + rows("....") + `}`},
		{name: "bad marker", input: `{"phase":"RUNNING","currentPlayer":"BLACK","field":` + rows("...x....") + `}`},
		{name: "disk count", input: `{"phase":"RUNNING","currentPlayer":"BLACK","diskCount":{"BLACK":-1},"field":` + rows("........") + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s GameState
			if err := json.Unmarshal([]byte(tt.input), &s); err == nil {
				t.Errorf("unmarshal(%s) succeeded, want error", tt.input)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		token   string
		want    Cell
		wantErr bool
	}{
		{token: "A1", want: Cell{0, 0}},
		{token: "d3", want: Cell{3, 2}},
		{token: " H8 ", want: Cell{7, 7}},
		{token: "I1", wantErr: true},
		{token: "A9", wantErr: true},
		{token: "A0", wantErr: true},
		{token: "A", wantErr: true},
		{token: "A10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseCell(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseCell(%q) = %v, want error", tt.token, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCell(%q) error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("ParseCell(%q) = %v, want %v", tt.token, got, tt.want)
			}
			if got.Notation() != strings.ToUpper(strings.TrimSpace(tt.token)) {
				t.Errorf("Notation() = %q", got.Notation())
			}
		})
	}
}
