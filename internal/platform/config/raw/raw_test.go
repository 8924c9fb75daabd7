package raw

import "testing"

func TestConf(t *testing.T) {
	t.Setenv("LOG_LEVEL", " warn ")
	t.Setenv("LOG_CALLER", "YES")
	t.Setenv("LOG_OFF", "nope")
	t.Setenv("LOG_SAMPLE_EVERY", "10")
	t.Setenv("LOG_BAD_INT", "-3")
	t.Setenv("LOG_WORD_INT", "ten")

	c := New().Prefix("LOG_")

	if got := c.Get("LEVEL", "info"); got != "warn" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("MISSING", "info"); got != "info" {
		t.Fatalf("Get default = %q", got)
	}

	boolCases := []struct {
		key  string
		def  bool
		want bool
	}{
		{"CALLER", false, true},
		{"OFF", true, false},
		{"MISSING", true, true},
	}
	for _, bc := range boolCases {
		if got := c.GetBool(bc.key, bc.def); got != bc.want {
			t.Fatalf("GetBool(%s) = %v, want %v", bc.key, got, bc.want)
		}
	}

	intCases := []struct {
		key  string
		want int
	}{
		{"SAMPLE_EVERY", 10},
		{"BAD_INT", 7},
		{"WORD_INT", 7},
		{"MISSING", 7},
	}
	for _, ic := range intCases {
		if got := c.GetInt(ic.key, 7); got != ic.want {
			t.Fatalf("GetInt(%s) = %d, want %d", ic.key, got, ic.want)
		}
	}
}
