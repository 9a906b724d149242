package generator

import (
	"errors"
	"testing"
)

func TestParseTarget(t *testing.T) {
	for _, want := range Targets() {
		got, err := ParseTarget(want.String())
		if err != nil {
			t.Fatalf("ParseTarget(%q): %v", want, err)
		}
		if got != want {
			t.Fatalf("ParseTarget(%q) = %q", want, got)
		}
	}
	for _, bad := range []string{"ruby", "", "Python-Like", "browser-js", "java"} {
		_, err := ParseTarget(bad)
		var ute *UnsupportedTargetError
		if !errors.As(err, &ute) || ute.Target != bad {
			t.Fatalf("ParseTarget(%q): expected UnsupportedTargetError, got %v", bad, err)
		}
	}
}

func TestTargetDefaults(t *testing.T) {
	cases := []struct {
		target Target
		file   string
		auth   bool
	}{
		{TargetBrowserScript, "api.js", true},
		{TargetPythonLike, "api.py", true},
		{TargetJavaLike, "ApiClient.java", false},
	}
	for _, tc := range cases {
		if tc.target.FileName() != tc.file {
			t.Fatalf("%s: file name %q", tc.target, tc.target.FileName())
		}
		if tc.target.DefaultAuthTokens() != tc.auth {
			t.Fatalf("%s: default auth tokens %v", tc.target, tc.target.DefaultAuthTokens())
		}
		if (Options{}).AuthTokensFor(tc.target) != tc.auth {
			t.Fatalf("%s: zero options should follow target default", tc.target)
		}
		if !(Options{}).WithAuthTokens(true).AuthTokensFor(tc.target) {
			t.Fatalf("%s: explicit option ignored", tc.target)
		}
	}
}
