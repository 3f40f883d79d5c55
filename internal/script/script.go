// Package script renders the JavaScript fragments modules and the engine
// emit: quoting, call heads, try/catch wrapping, and method/attribute
// tables.
package script

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/roach88/framboise/internal/random"
)

// Quote renders s as a double-quoted script string literal.
func Quote(s string) string {
	return JSON(s)
}

// JSON renders v as a JSON literal without HTML escaping. Values that cannot
// be encoded render as "undefined".
func JSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "undefined"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// MethodHead renders an argument list: "(a, b, c)".
func MethodHead(args ...string) string {
	return "(" + strings.Join(args, ", ") + ")"
}

// Args resolves every producer through src.
func Args(src *random.Source, params []random.Producer) []string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = src.Pick(p)
	}
	return args
}

// Call renders "target.method(args);".
func Call(target, method string, args ...string) string {
	return target + "." + method + MethodHead(args...) + ";"
}

// Assign renders "name = expr;".
func Assign(name, expr string) string {
	return name + " = " + strings.TrimSuffix(expr, ";") + ";"
}

// Safely wraps cmd so a thrown exception does not stop the testcase.
func Safely(cmd string) string {
	return "try { " + cmd + " } catch(e) { }"
}

// Function renders an anonymous function with body.
func Function(body string) string {
	return "function() { " + body + " }"
}

// Listener renders an event callback with body.
func Listener(body string) string {
	return "function(e) { " + body + " }"
}

// AddElementToBody renders the append of element name to the document.
func AddElementToBody(name string) string {
	return "document.body.appendChild(" + name + ");"
}

// Methods maps method names to their argument producers.
type Methods map[string][]random.Producer

// Attributes maps attribute names to their value producer.
type Attributes map[string]random.Producer

// MethodCall draws a method from methods and renders a call on target.
// Returns "" for an empty table.
func MethodCall(src *random.Source, target string, methods Methods) string {
	name := random.Key(src, methods)
	if name == "" {
		return ""
	}
	return Call(target, name, Args(src, methods[name])...)
}

// SetAttribute draws an attribute from attrs and renders an assignment on
// target. Returns "" for an empty table.
func SetAttribute(src *random.Source, target string, attrs Attributes) string {
	name := random.Key(src, attrs)
	if name == "" {
		return ""
	}
	return target + "." + name + " = " + src.Pick(attrs[name]) + ";"
}
