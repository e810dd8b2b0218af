package items

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// document is the parse tree produced by the recipe/catalog DSL (§3.6). The
// DSL is seed-independent: NewCatalog parses it each time a kernel is built
// to freeze ItemCatalog's definitions and CraftingEvolution's base recipe
// table, without any world-specific RNG involved. Recipe inputs may be
// separated by "+" or by whitespace.
type document struct {
	Statements []*statement `( @@ ";" )*`
}

type statement struct {
	Item   *itemDecl   `  @@`
	Recipe *recipeDecl `| @@`
}

type itemDecl struct {
	Name  string  `"item" @Ident`
	Attrs []*attr `@@*`
}

type recipeDecl struct {
	Name    string      `"recipe" @Ident "="`
	Inputs  []*quantity `@@ ("+"? @@)*`
	Outputs []*quantity `"->" @@ ("+" @@)*`
	Attrs   []*attr     `@@*`
}

type attr struct {
	Key   string `@Ident "="`
	Value string `( @Ident | @Float | @Int )`
}

type quantity struct {
	Item   string `@Ident`
	Amount int    `"*" @Int`
}

var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[=*+;]`},
	{Name: "Whitespace", Pattern: `[ \t\n\r]+`},
})

var dslParser = participle.MustBuild[document](
	participle.Lexer(dslLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

func parseDocument(src string) (*document, error) {
	return dslParser.ParseString("catalog.dsl", src)
}
