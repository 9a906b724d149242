package generator

import (
	"fmt"
	"strings"
)

const javaImports = `
import java.io.*;
import java.net.*;
import org.json.JSONObject;

public class ApiClient {
`

const javaAuthToken = `    private static String authToken = null;

    public static void setAuthToken(String token) {
        authToken = token;
    }

    public static void clearAuthToken() {
        authToken = null;
    }

`

const javaCallAPIOpen = `    private static String callApi(String action, JSONObject args) {
        try {
            URL url = new URL(API_ENDPOINT);
            HttpURLConnection conn = (HttpURLConnection) url.openConnection();
            conn.setRequestMethod("POST");
            conn.setRequestProperty("Content-Type", "application/json; utf-8");
            conn.setRequestProperty("Accept", "application/json");
`

const javaAuthHeader = `            if (authToken != null && !authToken.isEmpty()) {
                conn.setRequestProperty("Authorization", "Bearer " + authToken);
            }
`

// The trailing spaces after os.write match the established output shape.
const javaCallAPIClose = `            conn.setDoOutput(true);

            try(OutputStream os = conn.getOutputStream()) {
                byte[] input = args.toString().getBytes("utf-8");
                os.write(input, 0, input.length);           
            }

            try(BufferedReader br = new BufferedReader(
                new InputStreamReader(conn.getInputStream(), "utf-8"))) {
                StringBuilder response = new StringBuilder();
                String responseLine = null;
                while ((responseLine = br.readLine()) != null) {
                    response.append(responseLine.trim());
                }
                return response.toString();
            }
        } catch (Exception e) {
            e.printStackTrace();
            return null;
        }
    }
`

type javaEmitter struct{}

func (javaEmitter) preamble(opts Options) string {
	b := &strings.Builder{}
	b.WriteString(javaImports)
	fmt.Fprintf(b, "    private static final String API_ENDPOINT = \"%s\";\n\n", opts.EndpointURL)
	if opts.authTokens() {
		b.WriteString(javaAuthToken)
	}
	b.WriteString(javaCallAPIOpen)
	if opts.authTokens() {
		b.WriteString(javaAuthHeader)
	}
	b.WriteString(javaCallAPIClose)
	return b.String()
}

// action stays a separate helper argument; it is never put into args.
func (javaEmitter) endpoint(name string, params []string, action string) string {
	decls := make([]string, 0, len(params))
	for _, p := range params {
		decls = append(decls, "String "+p)
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "\n    public static String %s(%s) {\n", name, strings.Join(decls, ", "))
	b.WriteString("        JSONObject args = new JSONObject();\n")
	for _, p := range params {
		fmt.Fprintf(b, "        args.put(\"%s\", %s);\n", p, p)
	}
	fmt.Fprintf(b, "        return callApi(\"%s\", args);\n    }\n", action)
	return b.String()
}

func (javaEmitter) epilogue() string {
	return "}\n"
}

// A static method may not hide an instance method inherited from Object.
var javaObjectMethods = []string{"toString", "hashCode", "getClass", "notify", "notifyAll", "wait", "clone", "finalize"}

func (javaEmitter) reserved(opts Options) reservedNames {
	res := reservedNames{
		keywords:     javaKeywords,
		funcKeywords: true,
		funcs:        append([]string{"callApi"}, javaObjectMethods...),
		params:       []string{"args"},
	}
	if opts.authTokens() {
		res.funcs = append(res.funcs, "setAuthToken", "clearAuthToken")
	}
	return res
}
