// Package classifier assigns an attack pattern label and a threat score to a
// single decoy-endpoint hit. Classification is pure and deterministic: each
// endpoint kind owns an ordered rule table evaluated top to bottom, first
// match wins, with a per-kind default when nothing matches.
package classifier

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind selects the rule table for a decoy endpoint.
type Kind string

const (
	KindLogin Kind = "login"
	KindAPI   Kind = "api"
	KindDB    Kind = "db"
)

// Input is an already-parsed request against a decoy endpoint.
type Input struct {
	IPAddress string
	Kind      Kind
	Method    string
	Path      string
	Headers   map[string]interface{}
	Body      map[string]interface{}
}

// Result is the classification outcome.
type Result struct {
	Pattern string
	Score   int
}

// Rule pairs a predicate with the pattern and score it assigns.
type Rule struct {
	Match   func(Input) bool
	Pattern string
	Score   int
}

var loginRules = []Rule{
	{
		Match: func(in Input) bool {
			pw := bodyString(in, "password")
			return strings.Contains(pw, "'") || strings.Contains(pw, "--")
		},
		Pattern: "SQL Injection Attempt",
		Score:   95,
	},
	{
		Match: func(in Input) bool {
			return len(bodyString(in, "username")) > 50 || len(bodyString(in, "password")) > 50
		},
		Pattern: "Buffer Overflow Attempt",
		Score:   90,
	},
	{
		Match: func(in Input) bool {
			return strings.Contains(strings.ToLower(bodyString(in, "username")), "admin")
		},
		Pattern: "Admin Account Probing",
		Score:   85,
	},
}

var apiRules = []Rule{
	{
		Match: func(in Input) bool {
			return strings.Contains(in.Path, "..") || strings.Contains(in.Path, "etc")
		},
		Pattern: "Directory Traversal Attempt",
		Score:   90,
	},
	{
		Match: func(in Input) bool {
			return strings.Contains(stringifyBody(in), "<script>")
		},
		Pattern: "XSS Injection Attempt",
		Score:   85,
	},
	{
		Match: func(in Input) bool {
			return strings.Contains(headerString(in, "user-agent"), "sqlmap")
		},
		Pattern: "Automated Attack Tool Detected",
		Score:   95,
	},
}

var dbRules = []Rule{
	{
		Match: func(in Input) bool {
			return strings.Contains(strings.ToLower(bodyString(in, "query")), "drop table")
		},
		Pattern: "SQL Drop Table Attack",
		Score:   100,
	},
	{
		Match: func(in Input) bool {
			return strings.Contains(strings.ToLower(bodyString(in, "query")), "union select")
		},
		Pattern: "SQL Union Injection",
		Score:   95,
	},
	{
		Match: func(in Input) bool {
			// Literal tautology check is intentionally case-sensitive.
			return strings.Contains(bodyString(in, "query"), "' or '1'='1")
		},
		Pattern: "SQL Authentication Bypass",
		Score:   90,
	},
	{
		Match: func(in Input) bool {
			q := strings.ToLower(bodyString(in, "query"))
			return strings.Contains(q, "select") && strings.Contains(q, "from")
		},
		Pattern: "SQL Data Extraction Attempt",
		Score:   85,
	},
}

type ruleTable struct {
	rules          []Rule
	defaultPattern string
	defaultScore   int
}

var tables = map[Kind]ruleTable{
	KindLogin: {rules: loginRules, defaultPattern: "Unknown", defaultScore: 50},
	KindAPI:   {rules: apiRules, defaultPattern: "API Reconnaissance", defaultScore: 70},
	KindDB:    {rules: dbRules, defaultPattern: "Database Query Attempt", defaultScore: 75},
}

// Classify evaluates the rule table for the input's endpoint kind. Unknown
// kinds fall through to the login default so a misrouted hit is still
// recorded rather than dropped.
func Classify(in Input) Result {
	table, ok := tables[in.Kind]
	if !ok {
		table = tables[KindLogin]
	}

	for _, rule := range table.rules {
		if rule.Match(in) {
			return Result{Pattern: rule.Pattern, Score: ClampScore(rule.Score)}
		}
	}

	return Result{Pattern: table.defaultPattern, Score: ClampScore(table.defaultScore)}
}

// ClampScore bounds a score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// bodyString pulls a string field out of the body. Missing or non-string
// fields are treated as absent.
func bodyString(in Input, key string) string {
	if in.Body == nil {
		return ""
	}
	if v, ok := in.Body[key].(string); ok {
		return v
	}
	return ""
}

// headerString pulls a header value, matching the key case-insensitively.
func headerString(in Input, key string) string {
	for k, v := range in.Headers {
		if !strings.EqualFold(k, key) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// stringifyBody renders the whole body as JSON for substring checks. HTML
// escaping is disabled so markers like <script> stay literal in the output.
func stringifyBody(in Input) string {
	if len(in.Body) == 0 {
		return "{}"
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(in.Body); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
