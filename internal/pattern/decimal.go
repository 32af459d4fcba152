package pattern

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

var decimalLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Quoted", Pattern: `'(?:[^']|'')*'`},
	{Name: "OpenQuote", Pattern: `'`},
	{Name: "Zero", Pattern: `0`},
	{Name: "Hash", Pattern: `#`},
	{Name: "Group", Pattern: `,`},
	{Name: "Point", Pattern: `\.`},
	{Name: "Exponent", Pattern: `E`},
	{Name: "Separator", Pattern: `;`},
	{Name: "Literal", Pattern: `(?s:.)`},
})

var (
	decimalSymbols = decimalLexer.Symbols()
	tZero          = decimalSymbols["Zero"]
	tHash          = decimalSymbols["Hash"]
	tGroup         = decimalSymbols["Group"]
	tPoint         = decimalSymbols["Point"]
	tExponent      = decimalSymbols["Exponent"]
	tSeparator     = decimalSymbols["Separator"]
	tOpenQuote     = decimalSymbols["OpenQuote"]
)

type decimalPhase int

const (
	prefixPhase decimalPhase = iota
	numberPhase
	suffixPhase
)

// ValidateDecimal checks a decimal-format pattern: an optional prefix, a
// number part of '#', '0', ',', '.' and an optional 'E0…' exponent, an
// optional suffix, and at most one ';'-separated negative subpattern.
// Literal text may be quoted with single quotes.
func ValidateDecimal(pattern string) error {
	if pattern == "" {
		return nil
	}

	tokens, err := tokenize(decimalLexer, pattern)
	if err != nil {
		return &Error{Reason: InvalidDecimalFormat, Pattern: pattern, Detail: err.Error()}
	}

	var subpatterns [][]lexer.Token
	start := 0
	for i, tok := range tokens {
		if tok.Type == tSeparator {
			subpatterns = append(subpatterns, tokens[start:i])
			start = i + 1
		}
	}
	subpatterns = append(subpatterns, tokens[start:])

	if len(subpatterns) > 2 {
		return &Error{Reason: InvalidDecimalFormat, Pattern: pattern, Detail: "Too many pattern separators"}
	}

	for i, sub := range subpatterns {
		if i > 0 && len(sub) == 0 {
			continue
		}
		if detail := checkDecimalSubpattern(sub); detail != "" {
			return &Error{Reason: InvalidDecimalFormat, Pattern: pattern, Detail: detail}
		}
	}
	return nil
}

func checkDecimalSubpattern(tokens []lexer.Token) string {
	phase := prefixPhase
	hashLeft, zeros, hashRight := 0, 0, 0
	decimalPos, groupingCount := -1, -1
	exponent := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Type == tOpenQuote {
			return "Unterminated quote"
		}

		switch phase {
		case prefixPhase:
			switch tok.Type {
			case tZero, tHash, tGroup, tPoint:
				phase = numberPhase
				i--
			}

		case numberPhase:
			switch tok.Type {
			case tHash:
				if zeros > 0 {
					hashRight++
				} else {
					hashLeft++
				}
				if groupingCount >= 0 && decimalPos < 0 {
					groupingCount++
				}
			case tZero:
				if hashRight > 0 {
					return "Unexpected '0' in pattern"
				}
				zeros++
				if groupingCount >= 0 && decimalPos < 0 {
					groupingCount++
				}
			case tGroup:
				if decimalPos >= 0 {
					return "Grouping separator in fraction part"
				}
				groupingCount = 0
			case tPoint:
				if decimalPos >= 0 {
					return "Multiple decimal separators"
				}
				decimalPos = hashLeft + zeros + hashRight
			case tExponent:
				exponent = true
				exponentZeros := 0
				for i+1 < len(tokens) && tokens[i+1].Type == tZero {
					i++
					exponentZeros++
				}
				if hashLeft+zeros < 1 || exponentZeros < 1 {
					return "Malformed exponential pattern"
				}
				phase = suffixPhase
			default:
				phase = suffixPhase
				i--
			}

		case suffixPhase:
			switch tok.Type {
			case tZero, tHash, tGroup, tPoint:
				return fmt.Sprintf("Unquoted special character '%s' in pattern", tok.Value)
			case tExponent:
				if exponent {
					return "Multiple exponential symbols"
				}
			}
		}
	}

	if phase == prefixPhase {
		return "Missing digit placeholder in pattern"
	}

	// "###.###", "###." and ".###" carry no zero digit: the integer part
	// ends at the separator
	if zeros == 0 && hashLeft > 0 && decimalPos >= 0 {
		n := decimalPos
		if n == 0 {
			n++
		}
		hashRight = hashLeft - n
		hashLeft = n - 1
		zeros = 1
	}

	switch {
	case decimalPos < 0 && hashRight > 0,
		decimalPos >= 0 && (decimalPos < hashLeft || decimalPos > hashLeft+zeros):
		return "Malformed pattern"
	case groupingCount == 0:
		return "Grouping separator at end of integer part"
	}
	return ""
}
