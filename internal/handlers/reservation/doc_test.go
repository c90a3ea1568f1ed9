package reservation_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_APIAnnotations(t *testing.T) {
	file, err := parser.ParseFile(token.NewFileSet(), "handler.go", nil, parser.ParseComments)
	require.NoError(t, err)

	var doc string

	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == "Dispatch" {
			doc = fn.Doc.Text()
		}
	}

	require.NotEmpty(t, doc)

	for _, annotation := range []string{
		"@Summary",
		"@Accept json",
		"@Param request body",
		"@Success 201",
		"@Failure 409",
		"@Router /v1/reservations [post]",
	} {
		assert.Contains(t, doc, annotation)
	}
}
