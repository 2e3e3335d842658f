package scene

import "testing"

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{"/Cubic/Ribbons/VaryingWidth", "/Cubic/Ribbons/VaryingWidth", false},
		{" /Cubic/ ", "/Cubic", false},
		{"/", RootPath, false},
		{"Cubic", "", true},
		{"/Cubic//Tubes", "", true},
		{"/1abc", "", true},
		{"/a-b", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePath(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePath(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParsePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePathNormalizesUnicode(t *testing.T) {
	composed, err := ParsePath("/caf\u00e9")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	decomposed, err := ParsePath("/cafe\u0301")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if composed != decomposed {
		t.Fatalf("expected NFC normalization, got %q and %q", composed, decomposed)
	}
}

func TestPathParentAndName(t *testing.T) {
	p := MustParsePath("/Cubic/Tubes/WithVelocities")
	if p.Name() != "WithVelocities" {
		t.Fatalf("Name = %q", p.Name())
	}
	if p.Parent() != "/Cubic/Tubes" {
		t.Fatalf("Parent = %q", p.Parent())
	}
	if MustParsePath("/Cubic").Parent() != RootPath {
		t.Fatal("top-level prim parent should be root")
	}
	if p.Depth() != 3 {
		t.Fatalf("Depth = %d", p.Depth())
	}
}
