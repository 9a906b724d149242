package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mirror12k/catwalk-apigen/internal/store"
	"github.com/mirror12k/catwalk-apigen/pkg/types"
)

// ProgressFunc reports generation progress.
type ProgressFunc func(stage string)

// Generate emits client source for def in the target convention.
// It validates everything up front and returns either the full source or an error.
func Generate(def types.APIDefinition, target Target, opts Options) (string, error) {
	em, err := emitterFor(target)
	if err != nil {
		return "", err
	}
	opts = opts.resolve(target)
	if err := validateEndpointURL(opts.EndpointURL); err != nil {
		return "", err
	}
	if err := validateDefinition(def, em.reserved(opts)); err != nil {
		return "", err
	}

	b := &strings.Builder{}
	b.WriteString(em.preamble(opts))
	emitEndpoints(b, def, em.endpoint)
	b.WriteString(em.epilogue())
	return b.String(), nil
}

func emitEndpoints(b *strings.Builder, def types.APIDefinition, emit func(name string, params []string, action string) string) {
	for _, ep := range def {
		b.WriteString(emit(FunctionName(ep.Action), ep.Args, ep.Action))
	}
}

// GenerateAndRecord generates source and persists the run in st.
func GenerateAndRecord(st store.Store, def types.APIDefinition, target Target, opts Options, onProgress ProgressFunc) (*types.GenerationRun, error) {
	if st == nil {
		return nil, errors.New("store is nil")
	}

	report(onProgress, fmt.Sprintf("generating %s client for %d endpoints", target, len(def)))
	source, err := Generate(def, target, opts)
	if err != nil {
		return nil, err
	}

	if def == nil {
		def = types.APIDefinition{}
	}
	defJSON, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	resolved := opts.resolve(target)
	run := &types.GenerationRun{
		Target:        target.String(),
		EndpointURL:   resolved.EndpointURL,
		AuthTokens:    resolved.authTokens(),
		EndpointCount: len(def),
		Definition:    string(defJSON),
		Source:        source,
		Digest:        Digest(source),
	}

	report(onProgress, "recording run")
	if err := st.CreateRun(run); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// Digest is the hex sha256 of the generated source.
func Digest(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func report(fn ProgressFunc, msg string) {
	if fn != nil {
		fn(msg)
	}
}
