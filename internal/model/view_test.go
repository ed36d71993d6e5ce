package model

import "testing"

func TestViewMode_NextCycles(t *testing.T) {
	for start := ModeKBps; start < numViewModes; start++ {
		m := start
		for i := 0; i < 4; i++ {
			m = m.Next()
		}
		if m != start {
			t.Errorf("four Next() from %v ended at %v", start, m)
		}
	}
}

func TestViewMode_NextOrder(t *testing.T) {
	want := []ViewMode{ModeTotalKB, ModeTotalB, ModeTotalMB, ModeKBps}
	m := ModeKBps
	for i, w := range want {
		m = m.Next()
		if m != w {
			t.Errorf("step %d: Next() = %v, want %v", i, m, w)
		}
	}
}

func TestViewMode_Unit(t *testing.T) {
	tests := []struct {
		mode ViewMode
		want string
	}{
		{ModeKBps, "KB/sec"},
		{ModeTotalB, "B"},
		{ModeTotalKB, "KB"},
		{ModeTotalMB, "MB"},
	}
	for _, tt := range tests {
		if got := tt.mode.Unit(); got != tt.want {
			t.Errorf("%v.Unit() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestViewMode_UnitPanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Unit() on an invalid mode should panic")
		}
	}()
	_ = ViewMode(9).Unit()
}

func TestViewMode_Valid(t *testing.T) {
	if !ModeTotalMB.Valid() || ViewMode(-1).Valid() || numViewModes.Valid() {
		t.Error("Valid() returned unexpected results")
	}
}

func TestParseViewMode(t *testing.T) {
	for m := ModeKBps; m < numViewModes; m++ {
		got, err := ParseViewMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseViewMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseViewMode(" Total-MB "); err != nil || got != ModeTotalMB {
		t.Errorf("ParseViewMode is not case/space insensitive: %v, %v", got, err)
	}
	if _, err := ParseViewMode("gbps"); err == nil {
		t.Error("ParseViewMode(gbps) should fail")
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"sent", SortBySent, false},
		{"recv", SortByRecv, false},
		{"Received", SortByRecv, false},
		{"pid", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseSortKey(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestDefaultViewState(t *testing.T) {
	s := DefaultViewState()
	if s.Sort != SortByRecv || s.Mode != ModeKBps || s.LastTotalRow != 0 {
		t.Errorf("DefaultViewState() = %+v", s)
	}
}

func TestNewLine(t *testing.T) {
	p := NewProcess(100, 1000, "/usr/bin/curl", "eth0")
	l := NewLine(p, 1.5, 2.5)

	if l.PID != 100 || l.UID != 1000 || l.Name != "/usr/bin/curl" || l.Device != "eth0" {
		t.Errorf("NewLine() = %+v", l)
	}
	if l.Metric(SortBySent) != 1.5 || l.Metric(SortByRecv) != 2.5 {
		t.Errorf("Metric() returned wrong values for %+v", l)
	}
}

func TestNewLine_PanicsOnNegativePID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewLine with a negative pid should panic")
		}
	}()
	NewLine(NewProcess(-1, 0, "bad", ""), 0, 0)
}
