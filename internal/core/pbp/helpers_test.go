package pbp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var testGame = GameRef{Season: 2016, Number: 20001}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	return b
}

func jersey(n int) *int { return &n }

// testRoster mirrors testdata/feed.json
func testRoster() *RosterIndex {
	return BuildRosterIndex([]RosterPlayer{
		{Team: "njd", ID: 8475791, Name: "Taylor Hall", Jersey: jersey(9)},
		{Team: "njd", ID: 8471233, Name: "Travis Zajac", Jersey: jersey(19)},
		{Team: "njd", ID: 8476923, Name: "Pavel Zacha"},
		{Team: "tor", ID: 8470602, Name: "Dion Phaneuf", Jersey: jersey(3)},
		{Team: "tor", ID: 8478483, Name: "Mitchell Marner", Jersey: jersey(16)},
		{Team: "tor", ID: 8475172, Name: "Nazem Kadri", Jersey: jersey(43)},
		{Team: "mtl", ID: 8471283, Name: "Brian Gionta", Jersey: jersey(11)},
		{Team: "tor", ID: 8474037, Name: "Mike Komisarek", Jersey: jersey(8)},
	})
}

func mustFail(t *testing.T, err, kind error) *Failure {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	return f
}
