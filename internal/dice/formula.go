package dice

import (
	"fmt"
	"strconv"
	"strings"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
)

const (
	// MaxFormulaLength bounds the accepted input before whitespace is removed
	MaxFormulaLength = 200
	// MaxTerms bounds the number of +/- separated terms
	MaxTerms = 20
	// MaxDiceCount bounds N in NdS
	MaxDiceCount = 100
	// MaxDieSides bounds S in NdS
	MaxDieSides = 1000

	maxNumberDigits = 6
)

// KeepMode selects which dice of a group count toward the total
type KeepMode string

const (
	KeepAll     KeepMode = ""
	KeepHighest KeepMode = "kh"
	KeepLowest  KeepMode = "kl"
)

// Term is one signed piece of a formula: either a literal or a dice group
type Term struct {
	Sign      int      `json:"sign"`
	Literal   int      `json:"literal,omitempty"`
	Count     int      `json:"count,omitempty"`
	Sides     int      `json:"sides,omitempty"`
	Keep      KeepMode `json:"keep,omitempty"`
	KeepCount int      `json:"keep_count,omitempty"`
}

// IsDice reports whether the term rolls dice
func (t Term) IsDice() bool {
	return t.Sides > 0
}

func (t Term) String() string {
	if !t.IsDice() {
		return strconv.Itoa(t.Literal)
	}
	s := fmt.Sprintf("%dd%d", t.Count, t.Sides)
	if t.Keep != KeepAll {
		s += fmt.Sprintf("%s%d", t.Keep, t.KeepCount)
	}
	return s
}

// Formula is a parsed dice expression
type Formula struct {
	Raw   string
	Terms []Term
}

// String renders the formula in canonical form ("d20" becomes "1d20")
func (f *Formula) String() string {
	var b strings.Builder
	for i, t := range f.Terms {
		switch {
		case t.Sign < 0:
			b.WriteByte('-')
		case i > 0:
			b.WriteByte('+')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Parse parses a formula of the form term (('+'|'-') term)* where a term is
// an integer literal or [N]dS optionally followed by khK or klK.
// Whitespace is ignored except between two digits, and letters are
// case-insensitive.
func Parse(formula string) (*Formula, error) {
	if len(formula) > MaxFormulaLength {
		return nil, malformed(formula, fmt.Sprintf("formula longer than %d characters", MaxFormulaLength))
	}

	fields := strings.Fields(formula)
	for i := 1; i < len(fields); i++ {
		prev, next := fields[i-1], fields[i]
		if isDigit(prev[len(prev)-1]) && isDigit(next[0]) {
			return nil, malformed(formula, fmt.Sprintf("whitespace splits number %s %s", prev, next))
		}
	}

	compact := strings.ToLower(strings.Join(fields, ""))
	if compact == "" {
		return nil, malformed(formula, "formula is empty")
	}

	p := &parser{src: compact}
	parsed := &Formula{}
	for !p.done() {
		sign := 1
		switch p.peek() {
		case '+':
			p.pos++
		case '-':
			sign = -1
			p.pos++
		default:
			if len(parsed.Terms) > 0 {
				return nil, malformed(formula, fmt.Sprintf("unexpected %q at position %d", p.peek(), p.pos))
			}
		}

		term, err := p.term(sign)
		if err != nil {
			return nil, malformed(formula, err.Error())
		}
		parsed.Terms = append(parsed.Terms, term)
		if len(parsed.Terms) > MaxTerms {
			return nil, malformed(formula, fmt.Sprintf("more than %d terms", MaxTerms))
		}
	}

	parsed.Raw = parsed.String()
	return parsed, nil
}

// MustParse parses formula and panics on error. Useful for package-level formulas.
func MustParse(formula string) *Formula {
	f, err := Parse(formula)
	if err != nil {
		panic("dice: " + err.Error())
	}
	return f
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func malformed(formula, reason string) error {
	return vtterr.Validationf("invalid dice formula %q: %s", formula, reason).
		WithMeta("formula", formula)
}

type parser struct {
	src string
	pos int
}

func (p *parser) done() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

// number reads a run of digits; ok is false when there are none
func (p *parser) number() (n int, ok bool, err error) {
	start := p.pos
	for !p.done() && isDigit(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return 0, false, nil
	}
	digits := p.src[start:p.pos]
	if len(digits) > maxNumberDigits {
		return 0, false, fmt.Errorf("number %s is too large", digits)
	}
	n, err = strconv.Atoi(digits)
	if err != nil {
		return 0, false, fmt.Errorf("bad number %s: %w", digits, err)
	}
	return n, true, nil
}

func (p *parser) term(sign int) (Term, error) {
	count, hasCount, err := p.number()
	if err != nil {
		return Term{}, err
	}

	if p.done() || p.peek() != 'd' {
		if !hasCount {
			return Term{}, fmt.Errorf("expected a number or dice at position %d", p.pos)
		}
		return Term{Sign: sign, Literal: count}, nil
	}
	p.pos++ // 'd'

	if !hasCount {
		count = 1
	}
	sides, hasSides, err := p.number()
	if err != nil {
		return Term{}, err
	}
	if !hasSides {
		return Term{}, fmt.Errorf("missing die size at position %d", p.pos)
	}

	t := Term{Sign: sign, Count: count, Sides: sides}

	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, string(KeepHighest)):
		t.Keep = KeepHighest
	case strings.HasPrefix(rest, string(KeepLowest)):
		t.Keep = KeepLowest
	}
	if t.Keep != KeepAll {
		p.pos += len(t.Keep)
		k, hasK, kerr := p.number()
		if kerr != nil {
			return Term{}, kerr
		}
		if !hasK {
			k = 1
		}
		t.KeepCount = k
	}

	switch {
	case t.Count < 1:
		return Term{}, fmt.Errorf("dice count must be at least 1")
	case t.Count > MaxDiceCount:
		return Term{}, fmt.Errorf("dice count must be at most %d", MaxDiceCount)
	case t.Sides < 1:
		return Term{}, fmt.Errorf("die size must be at least 1")
	case t.Sides > MaxDieSides:
		return Term{}, fmt.Errorf("die size must be at most %d", MaxDieSides)
	case t.Keep != KeepAll && t.KeepCount < 1:
		return Term{}, fmt.Errorf("must keep at least 1 die")
	case t.Keep != KeepAll && t.KeepCount > t.Count:
		return Term{}, fmt.Errorf("cannot keep %d of %d dice", t.KeepCount, t.Count)
	}

	return t, nil
}
