package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders a roll for chat using Discord-flavored markdown.
// Dropped dice are struck through:
//
//	2d20kl1+3: [~~17~~ 4] +3 = **7**
func Format(r *DiceRoll) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(r.Formula)
	b.WriteString(": ")

	for i, g := range r.Groups {
		switch {
		case g.Sign < 0 && i == 0:
			b.WriteString("-")
		case g.Sign < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(formatGroup(g))
	}

	switch {
	case len(r.Groups) == 0:
		b.WriteString(strconv.Itoa(r.Modifier))
	case r.Modifier != 0:
		fmt.Fprintf(&b, " %+d", r.Modifier)
	}

	fmt.Fprintf(&b, " = **%d**", r.Total)
	return b.String()
}

func formatGroup(g DieGroup) string {
	parts := make([]string, len(g.Values))
	for i, v := range g.Values {
		if g.Kept[i] {
			parts[i] = strconv.Itoa(v)
		} else {
			parts[i] = fmt.Sprintf("~~%d~~", v)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}
