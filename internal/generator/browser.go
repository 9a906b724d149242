package generator

import (
	"fmt"
	"strings"
)

const browserCallAPIAuth = `
function callApi(action, args) {
    const auth_token = localStorage.getItem('auth_token');
    const headers = {
        'Content-Type': 'application/json'
    };

    if (auth_token) {
        headers['Authorization'] = 'Bearer ' + auth_token;
    }

    args.action = action;
    return fetch(api_endpoint, {
        method: 'POST',
        headers: headers,
        body: JSON.stringify(args)
    }).then(response => response.json());
}
`

const browserCallAPI = `
function callApi(action, args) {
    const headers = {
        'Content-Type': 'application/json'
    };

    args.action = action;
    return fetch(api_endpoint, {
        method: 'POST',
        headers: headers,
        body: JSON.stringify(args)
    }).then(response => response.json());
}
`

const browserAuthAccessors = `
    get_auth_token: () => localStorage.getItem('auth_token'),
    set_auth_token: token => localStorage.setItem('auth_token', token),
    clear_auth_token: () => localStorage.setItem('auth_token', ''),
`

const browserExportOpen = "export default {\n"

type browserEmitter struct{}

func (browserEmitter) preamble(opts Options) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "\nconst api_endpoint = '%s';\n", opts.EndpointURL)
	if opts.authTokens() {
		b.WriteString(browserCallAPIAuth)
		b.WriteString(browserExportOpen)
		b.WriteString(browserAuthAccessors)
	} else {
		b.WriteString(browserCallAPI)
		b.WriteString(browserExportOpen)
	}
	return b.String()
}

func (browserEmitter) endpoint(name string, params []string, action string) string {
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, fmt.Sprintf("'%s': %s", p, p))
	}
	return fmt.Sprintf("\n    %s: (%s) => callApi('%s', {%s}),\n",
		name, strings.Join(params, ", "), action, strings.Join(pairs, ", "))
}

func (browserEmitter) epilogue() string {
	return "};\n"
}

// Member names in an object literal may be keywords; parameters may not.
// callApi overwrites an "action" key in args.
func (browserEmitter) reserved(opts Options) reservedNames {
	res := reservedNames{
		keywords: javascriptKeywords,
		params:   []string{"callApi", "action", "api_endpoint", "localStorage", "fetch", "JSON"},
	}
	if opts.authTokens() {
		res.funcs = []string{"get_auth_token", "set_auth_token", "clear_auth_token"}
	}
	return res
}
