package circuit

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Deck is a parsed simulator deck: the instances with their nets and
// parameters.
type Deck struct {
	Instances []Instance
}

// Instance is one deck line.
type Instance struct {
	Name   string
	Nets   []string
	Params map[string]string
}

// grammar types for participle

type rawDeck struct {
	Lines []*rawLine `parser:"(Comment? EOL)* (@@ (Comment? EOL)*)* @@?"`
}

type rawLine struct {
	Name  string     `parser:"@Ident"`
	Terms []*rawTerm `parser:"@@*"`
}

type rawTerm struct {
	Assign *rawAssign `parser:"@@"`
	Net    *string    `parser:"| @Ident"`
}

type rawAssign struct {
	Key   string `parser:"@Ident Eq"`
	Value string `parser:"@Ident"`
}

var deckLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `\*[^\n]*`},
	{Name: "Ident", Pattern: `[A-Za-z0-9_\.\$\-:+]+`},
	{Name: "Eq", Pattern: `=`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var deckParser = participle.MustBuild[rawDeck](
	participle.Lexer(deckLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses a deck from source text.
func Parse(src string) (*Deck, error) {
	if strings.TrimSpace(src) == "" {
		return &Deck{}, nil
	}
	raw, err := deckParser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}

	deck := &Deck{}
	for _, line := range raw.Lines {
		if line == nil {
			continue
		}
		inst := Instance{Name: line.Name, Params: make(map[string]string)}
		for _, term := range line.Terms {
			switch {
			case term.Assign != nil:
				inst.Params[term.Assign.Key] = term.Assign.Value
			case term.Net != nil:
				inst.Nets = append(inst.Nets, *term.Net)
			}
		}
		deck.Instances = append(deck.Instances, inst)
	}
	return deck, nil
}

// ParseFile parses a deck file.
func ParseFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Instance returns the instance with the given name, or nil.
func (d *Deck) Instance(name string) *Instance {
	for i := range d.Instances {
		if d.Instances[i].Name == name {
			return &d.Instances[i]
		}
	}
	return nil
}

// NetNames returns the distinct net names in the deck, in first-seen order.
func (d *Deck) NetNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, inst := range d.Instances {
		for _, n := range inst.Nets {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}
