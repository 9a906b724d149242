package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/mirror12k/catwalk-apigen/pkg/types"
)

func TestFunctionName(t *testing.T) {
	cases := map[string]string{
		"/lambda/send":  "send",
		"lambda/stats":  "stats",
		"/lambda/send/": "send",
		"ping":          "ping",
		"//a//b//":      "b",
		"/":             "",
		"":              "",
	}
	for action, want := range cases {
		if got := FunctionName(action); got != want {
			t.Fatalf("FunctionName(%q) = %q, want %q", action, got, want)
		}
	}
}

func TestValidateProblems(t *testing.T) {
	cases := []struct {
		name   string
		target Target
		opts   Options
		ep     types.EndpointDefinition
		field  string
		reason string
	}{
		{"empty action", TargetBrowserScript, Options{}, types.EndpointDefinition{Action: ""}, "action", "required"},
		{"no segment", TargetBrowserScript, Options{}, types.EndpointDefinition{Action: "///"}, "action", "no non-empty path segment"},
		{"dash in name", TargetPythonLike, Options{}, types.EndpointDefinition{Action: "/lambda/send-message"}, "action", "not a valid identifier"},
		{"quote in action", TargetJavaLike, Options{}, types.EndpointDefinition{Action: "/x/it's"}, "action", "quote"},
		{"empty arg", TargetBrowserScript, Options{}, types.EndpointDefinition{Action: "/a/b", Args: []string{""}}, "args[0]", "required"},
		{"non-identifier arg", TargetBrowserScript, Options{}, types.EndpointDefinition{Action: "/a/b", Args: []string{"ok", "2fast"}}, "args[1]", "not a valid identifier"},
		{"duplicate arg", TargetJavaLike, Options{}, types.EndpointDefinition{Action: "/a/b", Args: []string{"id", "id"}}, "args[1]", "duplicates args[0]"},
		{"python keyword name", TargetPythonLike, Options{}, types.EndpointDefinition{Action: "/a/class"}, "action", "reserved"},
		{"java keyword name", TargetJavaLike, Options{}, types.EndpointDefinition{Action: "/a/new"}, "action", "reserved"},
		{"javascript keyword param", TargetBrowserScript, Options{}, types.EndpointDefinition{Action: "/a/b", Args: []string{"delete"}}, "args[0]", "reserved"},
		{"python API param", TargetPythonLike, Options{}, types.EndpointDefinition{Action: "/a/b", Args: []string{"API"}}, "args[0]", "reserved"},
		{"python action param", TargetPythonLike, Options{}, types.EndpointDefinition{Action: "/a/b", Args: []string{"action"}}, "args[0]", "reserved"},
		{"browser action param", TargetBrowserScript, Options{}, types.EndpointDefinition{Action: "/jobs/run", Args: []string{"action"}}, "args[0]", `"action" is reserved`},
		{"java Object method hashCode", TargetJavaLike, Options{}, types.EndpointDefinition{Action: "/x/hashCode"}, "action", "reserved"},
		{"java Object method toString", TargetJavaLike, Options{}, types.EndpointDefinition{Action: "/x/toString"}, "action", "reserved"},
		{"python staticmethod name", TargetPythonLike, Options{}, types.EndpointDefinition{Action: "/x/staticmethod"}, "action", "reserved"},
		{"java args param", TargetJavaLike, Options{}, types.EndpointDefinition{Action: "/a/b", Args: []string{"args"}}, "args[0]", "reserved"},
		{"browser accessor collision", TargetBrowserScript, Options{}, types.EndpointDefinition{Action: "/auth/set_auth_token"}, "action", "reserved"},
		{"java accessor collision", TargetJavaLike, Options{}.WithAuthTokens(true), types.EndpointDefinition{Action: "/auth/setAuthToken"}, "action", "reserved"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(types.APIDefinition{tc.ep}, tc.target, tc.opts)
			var invalid *InvalidEndpointDefinitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidEndpointDefinitionError, got %v", err)
			}
			for _, p := range invalid.Problems {
				if p.Field == tc.field && strings.Contains(p.Reason, tc.reason) {
					return
				}
			}
			t.Fatalf("no problem with field %q and reason %q in %v", tc.field, tc.reason, invalid.Problems)
		})
	}
}

func TestValidateAcceptsTargetSpecificNames(t *testing.T) {
	cases := []struct {
		target Target
		opts   Options
		def    types.APIDefinition
	}{
		{TargetBrowserScript, Options{}, types.APIDefinition{{Action: "/a/delete", Args: []string{"id"}}}},
		{TargetBrowserScript, Options{}.WithAuthTokens(false), types.APIDefinition{{Action: "/auth/set_auth_token", Args: []string{"token"}}}},
		{TargetJavaLike, Options{}, types.APIDefinition{{Action: "/auth/setAuthToken", Args: []string{"token"}}}},
		{TargetJavaLike, Options{}, types.APIDefinition{{Action: "/a/b", Args: []string{"action"}}}},
		{TargetPythonLike, Options{}, types.APIDefinition{{Action: "/lambda/send/", Args: []string{"message"}}}},
	}
	for _, tc := range cases {
		if err := Validate(tc.def, tc.target, tc.opts); err != nil {
			t.Fatalf("%s %v: unexpected error %v", tc.target, tc.def, err)
		}
	}
}

func TestValidateDuplicateDerivedNames(t *testing.T) {
	def := types.APIDefinition{
		{Action: "/v1/users/get", Args: []string{"id"}},
		{Action: "/v2/orders/list"},
		{Action: "/v2/users/get", Args: []string{"id"}},
	}
	err := Validate(def, TargetBrowserScript, Options{})
	var invalid *InvalidEndpointDefinitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEndpointDefinitionError, got %v", err)
	}
	if len(invalid.Problems) != 1 {
		t.Fatalf("expected exactly one problem, got %v", invalid.Problems)
	}
	p := invalid.Problems[0]
	if p.Index != 2 || p.Action != "/v2/users/get" || !strings.Contains(p.Reason, "duplicates endpoint 0") {
		t.Fatalf("unexpected problem %+v", p)
	}
	if !strings.Contains(err.Error(), "/v2/users/get") {
		t.Fatalf("error message should name the action: %s", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	def := types.APIDefinition{
		{Action: ""},
		{Action: "/ok/fine", Args: []string{"x"}},
		{Action: "/a/b", Args: []string{"bad-name"}},
	}
	err := Validate(def, TargetPythonLike, Options{})
	var invalid *InvalidEndpointDefinitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidEndpointDefinitionError, got %v", err)
	}
	if len(invalid.Problems) != 2 {
		t.Fatalf("expected 2 problems, got %v", invalid.Problems)
	}
	if invalid.Problems[0].Index != 0 || invalid.Problems[1].Index != 2 {
		t.Fatalf("unexpected problem indexes %v", invalid.Problems)
	}
}

func TestValidateUnsupportedTarget(t *testing.T) {
	var ute *UnsupportedTargetError
	if err := Validate(sampleDef, Target("Browser-Script"), Options{}); !errors.As(err, &ute) {
		t.Fatalf("expected UnsupportedTargetError, got %v", err)
	}
}
