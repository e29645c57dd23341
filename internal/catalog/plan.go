package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LoadPlan reads a markdown migration plan and builds the catalog from the
// first fenced ```toml block in it. Prose around the block is ignored, so a
// plan document can carry its own catalog.
func LoadPlan(path string) (*Catalog, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, err := extractTOMLBlock(source)
	if err != nil {
		return nil, err
	}
	if block == "" {
		return nil, fmt.Errorf("no fenced toml block found in %s", path)
	}
	return fromTOML(block)
}

// extractTOMLBlock uses a markdown AST to find the first fenced code block
// with a "toml" language info string.
func extractTOMLBlock(source []byte) (string, error) {
	var block string
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || block != "" {
			return ast.WalkContinue, nil
		}

		fencedCodeBlock, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if fencedCodeBlock.Info == nil || string(fencedCodeBlock.Info.Text(source)) != "toml" {
			return ast.WalkSkipChildren, nil
		}

		var content bytes.Buffer
		lines := fencedCodeBlock.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block = content.String()
		return ast.WalkStop, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return "", err
	}
	return block, nil
}
