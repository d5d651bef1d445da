package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func loginInput(username, password string) Input {
	return Input{
		Kind:   KindLogin,
		Method: "POST",
		Path:   "/honeypot/login",
		Body:   map[string]interface{}{"username": username, "password": password},
	}
}

func dbInput(query string) Input {
	return Input{
		Kind:   KindDB,
		Method: "POST",
		Path:   "/honeypot/db",
		Body:   map[string]interface{}{"query": query},
	}
}

func TestClassifyLogin(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		pattern  string
		score    int
	}{
		{"sql injection via quote", loginInput("user", "x' OR 1=1"), "SQL Injection Attempt", 95},
		{"sql injection via comment", loginInput("user", "pass--"), "SQL Injection Attempt", 95},
		{"long username buffer overflow", loginInput(strings.Repeat("A", 51), "pw"), "Buffer Overflow Attempt", 90},
		{"long password buffer overflow", loginInput("user", strings.Repeat("B", 51)), "Buffer Overflow Attempt", 90},
		{"admin probing", loginInput("administrator", "pw"), "Admin Account Probing", 85},
		{"admin probing case insensitive", loginInput("ADMIN", "pw"), "Admin Account Probing", 85},
		{"plain attempt", loginInput("alice", "hunter2"), "Unknown", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.input)
			assert.Equal(t, tt.pattern, result.Pattern)
			assert.Equal(t, tt.score, result.Score)
		})
	}
}

// The injection rule inspects the password, not the username, so an admin
// username with a clean password must classify as probing.
func TestClassifyLoginAdminNotInjection(t *testing.T) {
	result := Classify(loginInput("admin", "x"))
	assert.Equal(t, "Admin Account Probing", result.Pattern)
	assert.Equal(t, 85, result.Score)
}

// Injection markers in the password outrank the admin rule: order is fixed.
func TestClassifyLoginRuleOrder(t *testing.T) {
	result := Classify(loginInput("admin", "pw' --"))
	assert.Equal(t, "SQL Injection Attempt", result.Pattern)
	assert.Equal(t, 95, result.Score)
}

func TestClassifyAPI(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		pattern string
		score   int
	}{
		{
			"directory traversal dots",
			Input{Kind: KindAPI, Path: "/honeypot/api/../../secret"},
			"Directory Traversal Attempt", 90,
		},
		{
			"directory traversal etc",
			Input{Kind: KindAPI, Path: "/honeypot/api/etc/passwd"},
			"Directory Traversal Attempt", 90,
		},
		{
			"xss in body",
			Input{Kind: KindAPI, Path: "/honeypot/api/search", Body: map[string]interface{}{"q": "<script>alert(1)</script>"}},
			"XSS Injection Attempt", 85,
		},
		{
			"xss in nested body value",
			Input{Kind: KindAPI, Path: "/honeypot/api/search", Body: map[string]interface{}{"filters": map[string]interface{}{"name": "<script>steal()</script>"}}},
			"XSS Injection Attempt", 85,
		},
		{
			"sqlmap user agent",
			Input{Kind: KindAPI, Path: "/honeypot/api/users", Headers: map[string]interface{}{"User-Agent": "sqlmap/1.7"}},
			"Automated Attack Tool Detected", 95,
		},
		{
			"plain recon",
			Input{Kind: KindAPI, Path: "/honeypot/api/users"},
			"API Reconnaissance", 70,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.input)
			assert.Equal(t, tt.pattern, result.Pattern)
			assert.Equal(t, tt.score, result.Score)
		})
	}
}

func TestClassifyDB(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		pattern string
		score   int
	}{
		{"drop table", "DROP TABLE users", "SQL Drop Table Attack", 100},
		{"drop table lowercase", "drop table accounts;", "SQL Drop Table Attack", 100},
		{"union injection", "1 UNION SELECT password FROM users", "SQL Union Injection", 95},
		{"auth bypass tautology", "SELECT 1 WHERE name='' or '1'='1", "SQL Authentication Bypass", 90},
		{"data extraction", "SELECT email FROM customers", "SQL Data Extraction Attempt", 85},
		{"plain query", "UPDATE widgets SET x=1", "Database Query Attempt", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(dbInput(tt.query))
			assert.Equal(t, tt.pattern, result.Pattern)
			assert.Equal(t, tt.score, result.Score)
		})
	}
}

// drop table wins even when the query also matches every later rule.
func TestClassifyDBFirstMatchWins(t *testing.T) {
	query := "DROP TABLE t; UNION SELECT a FROM b WHERE c='' or '1'='1"
	result := Classify(dbInput(query))
	assert.Equal(t, "SQL Drop Table Attack", result.Pattern)
	assert.Equal(t, 100, result.Score)
}

func TestClassifyMissingFields(t *testing.T) {
	// No body, no headers: fall through to the defaults without panicking.
	assert.Equal(t, Result{"Unknown", 50}, Classify(Input{Kind: KindLogin}))
	assert.Equal(t, Result{"API Reconnaissance", 70}, Classify(Input{Kind: KindAPI}))
	assert.Equal(t, Result{"Database Query Attempt", 75}, Classify(Input{Kind: KindDB}))

	// Non-string body fields are treated as absent.
	result := Classify(Input{Kind: KindDB, Body: map[string]interface{}{"query": 42}})
	assert.Equal(t, "Database Query Attempt", result.Pattern)
}

func TestClassifyUnknownKindFallsBack(t *testing.T) {
	result := Classify(Input{Kind: Kind("bogus")})
	assert.Equal(t, "Unknown", result.Pattern)
	assert.Equal(t, 50, result.Score)
}

func TestClassifyDeterministic(t *testing.T) {
	in := dbInput("SELECT secret FROM vault")
	first := Classify(in)
	second := Classify(in)
	assert.Equal(t, first, second)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 100, ClampScore(150))
	assert.Equal(t, 42, ClampScore(42))
}
