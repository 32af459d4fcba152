package pattern

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

var dateTimeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Quoted", Pattern: `'(?:[^']|'')*'`},
	{Name: "OpenQuote", Pattern: `'`},
	{Name: "Letter", Pattern: `[A-Za-z]`},
	{Name: "Reserved", Pattern: `[#{}]`},
	{Name: "OptionalStart", Pattern: `\[`},
	{Name: "OptionalEnd", Pattern: `\]`},
	{Name: "Literal", Pattern: `(?s:.)`},
})

var (
	dateTimeSymbols = dateTimeLexer.Symbols()
	tLetter         = dateTimeSymbols["Letter"]
	tReserved       = dateTimeSymbols["Reserved"]
	tOptionalStart  = dateTimeSymbols["OptionalStart"]
	tOptionalEnd    = dateTimeSymbols["OptionalEnd"]
	tDateOpenQuote  = dateTimeSymbols["OpenQuote"]
)

// letterRule bounds how many times a pattern letter may repeat. allowed,
// when set, lists the only valid counts.
type letterRule struct {
	max     int
	allowed []int
}

var patternLetters = map[rune]letterRule{
	'G': {max: 5},
	'u': {max: 19},
	'y': {max: 19},
	'Y': {max: 19},
	'g': {max: 19},
	'D': {max: 3},
	'M': {max: 5},
	'L': {max: 5},
	'd': {max: 2},
	'Q': {max: 5},
	'q': {max: 5},
	'w': {max: 2},
	'W': {max: 1},
	'E': {max: 5},
	'e': {max: 5},
	'c': {max: 5, allowed: []int{1, 3, 4, 5}},
	'F': {max: 1},
	'a': {max: 1},
	'B': {max: 5, allowed: []int{1, 4, 5}},
	'h': {max: 2},
	'K': {max: 2},
	'k': {max: 2},
	'H': {max: 2},
	'm': {max: 2},
	's': {max: 2},
	'S': {max: 9},
	'A': {max: 19},
	'n': {max: 19},
	'N': {max: 19},
	'V': {max: 2, allowed: []int{2}},
	'v': {max: 4, allowed: []int{1, 4}},
	'z': {max: 4},
	'O': {max: 4, allowed: []int{1, 4}},
	'X': {max: 5},
	'x': {max: 5},
	'Z': {max: 5},
	'p': {max: 19},
}

// ValidateDateTime checks a date-time pattern: runs of pattern letters,
// quoted literals, '[' ']' optional sections and other literal characters.
// Unknown letters, the reserved characters '#', '{' and '}', unbalanced
// optional sections, out-of-range letter counts and a pad letter 'p' not
// followed by a letter are rejected.
func ValidateDateTime(pattern string) error {
	tokens, err := tokenize(dateTimeLexer, pattern)
	if err != nil {
		return &Error{Reason: InvalidDateFormat, Pattern: pattern, Detail: err.Error()}
	}

	fail := func(detail string) error {
		return &Error{Reason: InvalidDateFormat, Pattern: pattern, Detail: detail}
	}

	depth := 0
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Type {
		case tDateOpenQuote:
			return fail("Pattern ends with an incomplete string literal")
		case tReserved:
			return fail(fmt.Sprintf("Pattern includes reserved character: '%s'", tok.Value))
		case tOptionalStart:
			depth++
		case tOptionalEnd:
			if depth == 0 {
				return fail("Pattern invalid as it contains ] without previous [")
			}
			depth--
		case tLetter:
			letter := []rune(tok.Value)[0]
			count := 1
			for i+1 < len(tokens) && tokens[i+1].Type == tLetter && tokens[i+1].Value == tok.Value {
				i++
				count++
			}
			if detail := checkLetterCount(letter, count); detail != "" {
				return fail(detail)
			}
			// padding applies to the letter run that follows
			if letter == 'p' && (i+1 >= len(tokens) || tokens[i+1].Type != tLetter) {
				return fail("Pad letter 'p' must be followed by valid pad pattern")
			}
		}
	}
	return nil
}

func checkLetterCount(letter rune, count int) string {
	rule, ok := patternLetters[letter]
	if !ok {
		return fmt.Sprintf("Unknown pattern letter: %c", letter)
	}
	if count > rule.max {
		return fmt.Sprintf("Too many pattern letters: %c", letter)
	}
	if len(rule.allowed) > 0 {
		for _, n := range rule.allowed {
			if n == count {
				return ""
			}
		}
		return fmt.Sprintf("Wrong number of pattern letters: %c", letter)
	}
	return ""
}
