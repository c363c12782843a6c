package meta

import (
	"os"
	"strings"
	"unicode"
)

const envExprPrefix = "${env."

// expandEnvExpr substitutes every ${env.KEY} occurrence with the value of
// the environment variable KEY. Unset variables expand to the empty string.
// A prefix without a closing brace, or a key containing characters other
// than letters, digits or underscore, is left as literal text.
func expandEnvExpr(value string) string {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], envExprPrefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		keyStart := i + idx + len(envExprPrefix)

		keyEnd := strings.IndexByte(value[keyStart:], '}')
		if keyEnd < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[keyStart : keyStart+keyEnd]
		if !isEnvKey(key) {
			// keep the prefix literal and rescan the remainder so nested
			// expressions after the invalid key still expand
			b.WriteString(value[i+idx : keyStart])
			i = keyStart
			continue
		}
		b.WriteString(os.Getenv(key))
		i = keyStart + keyEnd + 1
	}
	return b.String()
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
