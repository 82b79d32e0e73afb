// Package glob compiles shell-style wildcard patterns into matchers evaluated
// against full path strings. The supported operators are `*` (any run of
// characters, crossing path-separator boundaries), `?` (exactly one character),
// and `[...]` character classes. Matching is case-sensitive. Malformed patterns
// never produce an error: an unclosed character class degrades to a literal
// match of the remaining text.
package glob

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenAnyRun
	tokenAnyCharacter
	tokenCharacterClass
)

// characterRange is an inclusive range inside a character class.
type characterRange struct {
	low  rune
	high rune
}

// characterClass is the compiled form of a `[...]` operator.
type characterClass struct {
	negated bool
	singles []rune
	ranges  []characterRange
}

// contains reports whether the class admits the provided rune.
func (class characterClass) contains(candidate rune) bool {
	matched := false
	for _, single := range class.singles {
		if single == candidate {
			matched = true
			break
		}
	}
	if !matched {
		for _, rangeValue := range class.ranges {
			if candidate >= rangeValue.low && candidate <= rangeValue.high {
				matched = true
				break
			}
		}
	}
	if class.negated {
		return !matched
	}
	return matched
}

// patternToken is one compiled element of a pattern.
type patternToken struct {
	kind    tokenKind
	literal []rune
	class   characterClass
}

// Pattern is a compiled glob expression ready for repeated evaluation.
type Pattern struct {
	tokens []patternToken
}

// Compile translates a glob expression into a Pattern. Compilation never fails;
// malformed constructs degrade to literal text.
func Compile(expression string) Pattern {
	var tokens []patternToken
	var literalRun []rune

	flushLiteral := func() {
		if len(literalRun) > 0 {
			tokens = append(tokens, patternToken{kind: tokenLiteral, literal: literalRun})
			literalRun = nil
		}
	}

	expressionRunes := []rune(expression)
	index := 0
	for index < len(expressionRunes) {
		current := expressionRunes[index]
		switch current {
		case '*':
			flushLiteral()
			// Consecutive stars collapse into one.
			if len(tokens) == 0 || tokens[len(tokens)-1].kind != tokenAnyRun {
				tokens = append(tokens, patternToken{kind: tokenAnyRun})
			}
			index++
		case '?':
			flushLiteral()
			tokens = append(tokens, patternToken{kind: tokenAnyCharacter})
			index++
		case '[':
			class, consumed, ok := compileCharacterClass(expressionRunes[index:])
			if !ok {
				literalRun = append(literalRun, current)
				index++
				continue
			}
			flushLiteral()
			tokens = append(tokens, patternToken{kind: tokenCharacterClass, class: class})
			index += consumed
		default:
			literalRun = append(literalRun, current)
			index++
		}
	}
	flushLiteral()

	return Pattern{tokens: tokens}
}

// compileCharacterClass parses a class starting at the opening bracket. It
// returns the compiled class, the number of runes consumed, and whether the
// class was well formed.
func compileCharacterClass(input []rune) (characterClass, int, bool) {
	var class characterClass
	position := 1
	if position < len(input) && (input[position] == '^' || input[position] == '!') {
		class.negated = true
		position++
	}
	// A closing bracket immediately after the opening (or negation) is a member.
	firstEntry := true
	for position < len(input) {
		current := input[position]
		if current == ']' && !firstEntry {
			return class, position + 1, true
		}
		firstEntry = false
		if position+2 < len(input) && input[position+1] == '-' && input[position+2] != ']' {
			class.ranges = append(class.ranges, characterRange{low: current, high: input[position+2]})
			position += 3
			continue
		}
		class.singles = append(class.singles, current)
		position++
	}
	return characterClass{}, 0, false
}

// Matches reports whether the compiled pattern matches the entire candidate string.
func (pattern Pattern) Matches(candidate string) bool {
	return matchTokens(pattern.tokens, []rune(candidate))
}

// Matches compiles the pattern and evaluates it against candidate. Callers that
// evaluate one pattern repeatedly should compile it once instead.
func Matches(pattern string, candidate string) bool {
	return Compile(pattern).Matches(candidate)
}

// matchTokens evaluates tokens against input, backtracking on any-run tokens.
func matchTokens(tokens []patternToken, input []rune) bool {
	if len(tokens) == 0 {
		return len(input) == 0
	}
	head := tokens[0]
	switch head.kind {
	case tokenLiteral:
		if len(input) < len(head.literal) {
			return false
		}
		for literalIndex, literalRune := range head.literal {
			if input[literalIndex] != literalRune {
				return false
			}
		}
		return matchTokens(tokens[1:], input[len(head.literal):])
	case tokenAnyCharacter:
		if len(input) == 0 {
			return false
		}
		return matchTokens(tokens[1:], input[1:])
	case tokenCharacterClass:
		if len(input) == 0 {
			return false
		}
		if !head.class.contains(input[0]) {
			return false
		}
		return matchTokens(tokens[1:], input[1:])
	case tokenAnyRun:
		for offset := 0; offset <= len(input); offset++ {
			if matchTokens(tokens[1:], input[offset:]) {
				return true
			}
		}
		return false
	}
	return false
}
