package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
)

var normalPadding = cli.Default.Padding

// ConvertStrToInt converts an input string to uint64. Hex needs a 0x prefix
// or a hex digit; anything else is parsed as decimal.
func ConvertStrToInt(intStr string) (uint64, error) {
	intStr = strings.ToLower(strings.TrimSpace(intStr))
	intStr = strings.ReplaceAll(intStr, "_", "")

	if strings.ContainsAny(intStr, "xabcdef") {
		hex := strings.TrimPrefix(intStr, "0x")
		if out, err := strconv.ParseUint(hex, 16, 64); err == nil {
			return out, nil
		}
		log.Warn("assuming given integer is in decimal")
	}
	out, err := strconv.ParseUint(intStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", intStr)
	}
	return out, nil
}

// ConvertStrsToInts converts every argument with ConvertStrToInt.
func ConvertStrsToInts(args []string) ([]uint64, error) {
	out := make([]uint64, 0, len(args))
	for _, arg := range args {
		v, err := ConvertStrToInt(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Indent indents apex log line to supplied level
func Indent(f func(s string), level int) func(string) {
	return func(s string) {
		cli.Default.Padding = normalPadding * level
		f(s)
		cli.Default.Padding = normalPadding
	}
}

// Pad creates left padding for printf members
func Pad(length int) string {
	if length > 0 {
		return strings.Repeat(" ", length)
	}
	return " "
}

// Bits renders in as a ruler-annotated binary string, four bits per group.
func Bits(in uint64) string {
	var out strings.Builder
	out.WriteString("|63  |59  |55  |51  |47  |43  |39  |35  |31  |27  |23  |19  |15  |11  |7   |3   |\n")
	for i, b := range fmt.Sprintf("%064b", in) {
		if i%4 == 0 && i != 0 {
			out.WriteRune(' ')
		}
		out.WriteRune(b)
	}
	return out.String()
}
