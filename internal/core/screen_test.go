package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(40, 12)

	if s.Width() != 40 {
		t.Errorf("Width() = %d, expected 40", s.Width())
	}
	if s.Height() != 12 {
		t.Errorf("Height() = %d, expected 12", s.Height())
	}

	// Check that it's initialized with spaces
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != blank {
				t.Errorf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'b', ColorBlack)
	if s.Get(5, 5) != 'b' {
		t.Errorf("Get(5, 5) = %q, expected 'b'", s.Get(5, 5))
	}
	if s.GetCell(5, 5).Color != ColorBlack {
		t.Errorf("GetCell(5, 5).Color = %d, expected ColorBlack", s.GetCell(5, 5).Color)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A', ColorDefault)
	s.Set(100, 0, 'A', ColorDefault)
	s.Set(0, -1, 'A', ColorDefault)
	s.Set(0, 100, 'A', ColorDefault)

	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
	if s.GetCell(100, 0) != blank {
		t.Error("Out of bounds GetCell should return a blank cell")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 4)
	for y := range 4 {
		for x := range 4 {
			s.Set(x, y, 'X', ColorError)
		}
	}

	s.Clear()

	for y := range 4 {
		for x := range 4 {
			if s.GetCell(x, y) != blank {
				t.Errorf("After Clear, expected blank at (%d, %d), got %+v", x, y, s.GetCell(x, y))
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(10, 2)

	s.DrawText(7, 0, "ABCDE", ColorGrid)
	if got := s.Row(0); got != "       ABC" {
		t.Errorf("Row(0) = %q, expected clipped text", got)
	}

	s.DrawTextCentered(1, "AB", ColorStatus)
	if got := s.Row(1); got != "    AB    " {
		t.Errorf("Row(1) = %q, expected centered text", got)
	}
	if s.GetCell(4, 1).Color != ColorStatus {
		t.Error("centered text lost its color")
	}

	// Multi-byte runes occupy one cell each.
	s.Clear()
	s.DrawText(0, 0, "●○", ColorDefault)
	if s.Get(0, 0) != '●' || s.Get(1, 0) != '○' {
		t.Errorf("Row(0) = %q", s.Row(0))
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(3, 2)
	s.DrawText(0, 0, "abc", ColorDefault)
	s.DrawText(0, 1, "xyz", ColorDefault)

	if got := s.String(); got != "abc\nxyz" {
		t.Errorf("String() = %q", got)
	}
	if lines := strings.Split(s.String(), "\n"); len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
	if got := s.Row(5); got != "   " {
		t.Errorf("Row(5) = %q, expected spaces", got)
	}
}

func TestActionDelta(t *testing.T) {
	tests := []struct {
		action Action
		dc, dr int
	}{
		{ActionUp, 0, 1},
		{ActionDown, 0, -1},
		{ActionLeft, -1, 0},
		{ActionRight, 1, 0},
		{ActionPlace, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.action.String(), func(t *testing.T) {
			dc, dr := tc.action.Delta()
			if dc != tc.dc || dr != tc.dr {
				t.Errorf("Delta() = (%d, %d), expected (%d, %d)", dc, dr, tc.dc, tc.dr)
			}
		})
	}

	if Action(99).String() != "Unknown" {
		t.Error("unknown action should stringify as Unknown")
	}
}
