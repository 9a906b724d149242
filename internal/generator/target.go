package generator

// Target selects the client convention the generator emits.
type Target string

const (
	TargetBrowserScript Target = "browser-script"
	TargetPythonLike    Target = "python-like"
	TargetJavaLike      Target = "java-like"
)

// Targets returns every supported target in a fixed order.
func Targets() []Target {
	return []Target{TargetBrowserScript, TargetPythonLike, TargetJavaLike}
}

// ParseTarget matches s exactly (case-sensitive) against the supported targets.
func ParseTarget(s string) (Target, error) {
	for _, t := range Targets() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &UnsupportedTargetError{Target: s}
}

func (t Target) String() string {
	return string(t)
}

// FileName is the conventional file name for the emitted client.
func (t Target) FileName() string {
	switch t {
	case TargetBrowserScript:
		return "api.js"
	case TargetPythonLike:
		return "api.py"
	case TargetJavaLike:
		return "ApiClient.java"
	default:
		return ""
	}
}

// DefaultAuthTokens reports whether the target emits auth-token support
// when Options.AuthTokens is unset.
func (t Target) DefaultAuthTokens() bool {
	switch t {
	case TargetBrowserScript, TargetPythonLike:
		return true
	default:
		return false
	}
}

// emitter produces the target-specific text around the shared endpoint loop.
type emitter interface {
	preamble(opts Options) string
	endpoint(name string, params []string, action string) string
	epilogue() string
	reserved(opts Options) reservedNames
}

func emitterFor(t Target) (emitter, error) {
	switch t {
	case TargetBrowserScript:
		return browserEmitter{}, nil
	case TargetPythonLike:
		return pythonEmitter{}, nil
	case TargetJavaLike:
		return javaEmitter{}, nil
	default:
		return nil, &UnsupportedTargetError{Target: string(t)}
	}
}
