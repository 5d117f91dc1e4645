// Package flagx lets several components parse their own subset of os.Args
// without tripping over flags that belong to someone else.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// token is one flag occurrence in an argument list: the flag itself and,
// when given as a separate argument, its value.
type token struct {
	name  string
	args  []string
	isArg bool
}

// scan splits args into flag tokens and positional arguments. A flag in
// valueFlags consumes the following argument as its value unless that
// argument starts with '-' or the flag already carries "=value".
func scan(args []string, valueFlags map[string]struct{}) []token {
	out := make([]token, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			out = append(out, token{args: []string{arg}, isArg: true})
			continue
		}
		name, _, hasValue := strings.Cut(arg, "=")
		t := token{name: name, args: []string{arg}}
		if _, ok := valueFlags[name]; ok && !hasValue {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				t.args = append(t.args, args[i+1])
				i++
			}
		}
		out = append(out, t)
	}
	return out
}

func set(names []string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

// FilterArgs returns only the occurrences of allowedFlags (with their values)
// from args, preserving order. Both "-f value" and "-f=value" are recognised.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := set(allowedFlags)
	filtered := make([]string, 0, len(args))
	for _, t := range scan(args, allowed) {
		if t.isArg {
			continue
		}
		if _, ok := allowed[t.name]; ok {
			filtered = append(filtered, t.args...)
		}
	}
	return filtered
}

// Positional returns the arguments that are neither flags nor values of the
// given value-taking flags. The CLI uses it to find one-shot commands such as
// "distill <url>" among configuration flags.
func Positional(args []string, valueFlags []string) []string {
	out := make([]string, 0, len(args))
	for _, t := range scan(args, set(valueFlags)) {
		if t.isArg {
			out = append(out, t.args[0])
		}
	}
	return out
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// an empty string when neither is present.
func JsonConfigFlags() string {
	var config string
	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
