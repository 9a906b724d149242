package generator

import (
	"fmt"
	"strings"
)

const pythonAuthToken = `    auth_token = None

    @staticmethod
    def set_auth_token(token):
        API.auth_token = token

    @staticmethod
    def clear_auth_token():
        API.auth_token = None
`

const pythonCallAPIOpen = `
    @staticmethod
    def call_api(action, args):
        headers = {}
`

const pythonAuthHeader = `        if API.auth_token:
            headers['Authorization'] = 'Bearer ' + API.auth_token
`

const pythonCallAPIClose = `        args['action'] = action
        response = requests.post(API.api_endpoint, json=args, headers=headers)
        return response.json()
`

type pythonEmitter struct{}

func (pythonEmitter) preamble(opts Options) string {
	b := &strings.Builder{}
	b.WriteString("\nimport requests\n\nclass API:\n")
	fmt.Fprintf(b, "    api_endpoint = \"%s\"\n", opts.EndpointURL)
	if opts.authTokens() {
		b.WriteString(pythonAuthToken)
	}
	b.WriteString(pythonCallAPIOpen)
	if opts.authTokens() {
		b.WriteString(pythonAuthHeader)
	}
	b.WriteString(pythonCallAPIClose)
	return b.String()
}

func (pythonEmitter) endpoint(name string, params []string, action string) string {
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, fmt.Sprintf("'%s': %s", p, p))
	}
	b := &strings.Builder{}
	b.WriteString("\n    @staticmethod\n")
	fmt.Fprintf(b, "    def %s(%s):\n", name, strings.Join(params, ", "))
	fmt.Fprintf(b, "        args = {%s}\n", strings.Join(pairs, ", "))
	fmt.Fprintf(b, "        return API.call_api('%s', args)\n", action)
	return b.String()
}

func (pythonEmitter) epilogue() string {
	return ""
}

// A parameter named API shadows the class; call_api overwrites an "action" key.
// A method named staticmethod rebinds the decorator for later methods.
func (pythonEmitter) reserved(opts Options) reservedNames {
	res := reservedNames{
		keywords:     pythonKeywords,
		funcKeywords: true,
		funcs:        []string{"call_api", "api_endpoint", "staticmethod"},
		params:       []string{"API", "action", "requests"},
	}
	if opts.authTokens() {
		res.funcs = append(res.funcs, "auth_token", "set_auth_token", "clear_auth_token")
	}
	return res
}
