package style

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrInvalidDeclaration is returned when an inline style cannot be parsed or
// a recognised property has an unusable value.
var ErrInvalidDeclaration = errors.New("style: invalid declaration")

// TermKind classifies one component of a declaration value.
type TermKind uint8

const (
	// TermIdent is a bare keyword or name, including custom property names.
	TermIdent TermKind = iota

	// TermString is a quoted string.
	TermString

	// TermNumber is a unitless, optionally signed number.
	TermNumber

	// TermDimension is a number followed by a unit or a percent sign.
	TermDimension

	// TermComma separates list items.
	TermComma

	// TermHash is a '#' token such as a hex colour.
	TermHash

	// TermURL is a url(...) reference, kept verbatim.
	TermURL

	// TermDelim is any other single character: parentheses, '/', '+' and
	// similar.
	TermDelim
)

// Term is one component of a declaration value. String terms carry their
// unquoted contents.
type Term struct {
	Kind TermKind
	Text string
}

// Declaration is a single "property: value" pair from a style attribute.
// Property is lower-cased.
type Declaration struct {
	Property  string
	Terms     []Term
	Important bool
}

// declarationList is the participle grammar for the body of a style
// attribute: declarations separated by semicolons, empty ones allowed.
//
//nolint:govet // participle grammar tags are not standard struct tags
type declarationList struct {
	Items []*declarationGrammar `( @@ | ";" )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type declarationGrammar struct {
	Property  string         `@Ident ":"`
	Terms     []*termGrammar `@@+`
	Important bool           `( "!" @"important" )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type termGrammar struct {
	String    *string `  @String`
	Dimension *string `| @Dimension`
	Number    *string `| @Number`
	Ident     *string `| @Ident`
	Hash      *string `| @Hash`
	URL       *string `| @URL`
	Delim     *string `| @Delim`
	Comma     bool    `| @","`
}

// declarationLexer tokenises inline CSS. Dimension must precede Number so
// "12px" is one token. Delim is last and takes any other single character,
// so values of properties that are not interpreted always lex.
var declarationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"[^"]*"|'[^']*'`},
	{Name: "URL", Pattern: `(?i)url\([^)]*\)`},
	{Name: "Dimension", Pattern: `[-+]?[0-9]*\.?[0-9]+(?:\pL+|%)`},
	{Name: "Number", Pattern: `[-+]?[0-9]*\.?[0-9]+`},
	{Name: "Hash", Pattern: `#[-\w]+`},
	{Name: "Ident", Pattern: `-{0,2}[\pL_][-\pL\pN_]*`},
	{Name: "Punct", Pattern: `[:;,!]`},
	{Name: "Delim", Pattern: `[^\s"':;,!]`},
})

var declarationParser = participle.MustBuild[declarationList](
	participle.Lexer(declarationLexer),
	participle.Elide("Whitespace"),
)

// ParseDeclarations parses the contents of a style attribute, for example
// `font-family: "Times New Roman", serif; font-size: 18px`.
func ParseDeclarations(s string) ([]Declaration, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parsed, err := declarationParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDeclaration, s, err)
	}

	decls := make([]Declaration, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		d := Declaration{
			Property:  strings.ToLower(item.Property),
			Terms:     make([]Term, 0, len(item.Terms)),
			Important: item.Important,
		}
		for _, t := range item.Terms {
			d.Terms = append(d.Terms, t.term())
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (g *termGrammar) term() Term {
	switch {
	case g.String != nil:
		return Term{Kind: TermString, Text: unquote(*g.String)}
	case g.Dimension != nil:
		return Term{Kind: TermDimension, Text: *g.Dimension}
	case g.Number != nil:
		return Term{Kind: TermNumber, Text: *g.Number}
	case g.Ident != nil:
		return Term{Kind: TermIdent, Text: *g.Ident}
	case g.Hash != nil:
		return Term{Kind: TermHash, Text: *g.Hash}
	case g.URL != nil:
		return Term{Kind: TermURL, Text: *g.URL}
	case g.Delim != nil:
		return Term{Kind: TermDelim, Text: *g.Delim}
	default:
		return Term{Kind: TermComma, Text: ","}
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
