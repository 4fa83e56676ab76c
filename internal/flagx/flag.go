// Package flagx holds small helpers for reading a subset of command-line
// flags without clashing with flag sets owned by other packages.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns only the allowed flags from args, together with their
// values. Both "-flag value" and "-flag=value" forms are recognised. A token
// starting with "-" is never consumed as a value.
//
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// LookupString returns the value of a string flag that may be spelled with
// any of names (without the leading dash). Only os.Args is inspected; other
// flags are ignored. The last occurrence wins. Empty when absent.
func LookupString(names ...string) string {
	var value string

	dashed := make([]string, 0, len(names))
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	for _, n := range names {
		dashed = append(dashed, "-"+n, "--"+n)
		fs.StringVar(&value, n, "", n)
	}

	_ = fs.Parse(FilterArgs(os.Args[1:], dashed))

	return value
}

// JsonConfigFlags returns the JSON config path given with -c or -config.
func JsonConfigFlags() string {
	return LookupString("config", "c")
}

// EnvFileFlags returns the dotenv file path given with -env-file.
func EnvFileFlags() string {
	return LookupString("env-file")
}
