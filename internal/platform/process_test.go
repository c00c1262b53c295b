package platform

import "testing"

func TestMatchProcess(t *testing.T) {
	tests := []struct {
		exe  string
		name string
		want bool
	}{
		{exe: "Endfield.exe", name: "endfield.exe", want: true},
		{exe: "ENDFIELD.EXE", name: "endfield.exe", want: true},
		{exe: "endfield.exe.bak", name: "endfield.exe", want: true},
		{exe: "explorer.exe", name: "endfield.exe", want: false},
		{exe: "Endfield.exe", name: "", want: false},
	}
	for _, tt := range tests {
		if got := matchProcess(tt.exe, tt.name); got != tt.want {
			t.Errorf("matchProcess(%q, %q) = %v, want %v", tt.exe, tt.name, got, tt.want)
		}
	}
}
