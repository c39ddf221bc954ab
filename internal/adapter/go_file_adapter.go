package adapter

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"

	m "leela.dev/pkg/leela/internal/model"
)

// GoFileAdapter encapsulates Go-specific parsing and type-category lookup so
// the domain layer can focus on mutation rules while delegating compilation
// details to an infrastructure component.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and source bytes.
	Parse(ctx context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)

	// CategoryLookup returns a lookup resolving the coarse operand category
	// of expressions inside the parsed file, derived from declared parameter
	// and result types plus literal kinds. Expressions it cannot classify
	// resolve to CategoryUnknown.
	CategoryLookup(fileSet *token.FileSet, file *ast.File) m.CategoryFunc
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(_ context.Context, fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	return parser.ParseFile(fileSet, filename, src, parser.ParseComments)
}

// typeCategories maps declared Go type names onto coarse operand categories.
var typeCategories = map[string]m.OperandCategory{
	"int":     m.CategoryNumeric,
	"int8":    m.CategoryNumeric,
	"int16":   m.CategoryNumeric,
	"int32":   m.CategoryNumeric,
	"int64":   m.CategoryNumeric,
	"uint":    m.CategoryNumeric,
	"uint8":   m.CategoryNumeric,
	"uint16":  m.CategoryNumeric,
	"uint32":  m.CategoryNumeric,
	"uint64":  m.CategoryNumeric,
	"uintptr": m.CategoryNumeric,
	"byte":    m.CategoryNumeric,
	"rune":    m.CategoryNumeric,
	"float32": m.CategoryNumeric,
	"float64": m.CategoryNumeric,
	"string":  m.CategoryText,
	"bool":    m.CategoryBoolean,
}

// funcScope records parameter categories for one function declaration.
type funcScope struct {
	startLine int
	endLine   int
	params    map[string]m.OperandCategory
}

// CategoryLookup inspects function signatures once and returns a closure
// classifying expressions by declared parameter types, literal kinds, and a
// handful of well-known builtins. Lookup is conservative: anything it cannot
// prove is CategoryUnknown.
func (a *LocalGoFileAdapter) CategoryLookup(fileSet *token.FileSet, file *ast.File) m.CategoryFunc {
	scopes := collectFuncScopes(fileSet, file)

	return func(expr ast.Expr) m.OperandCategory {
		return categoryOfExpr(fileSet, scopes, expr)
	}
}

func collectFuncScopes(fileSet *token.FileSet, file *ast.File) []funcScope {
	var scopes []funcScope

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Type.Params == nil {
			continue
		}

		params := make(map[string]m.OperandCategory)

		for _, field := range fd.Type.Params.List {
			category := categoryOfTypeExpr(field.Type)
			if category == m.CategoryUnknown {
				continue
			}

			for _, name := range field.Names {
				params[name.Name] = category
			}
		}

		scopes = append(scopes, funcScope{
			startLine: fileSet.Position(fd.Pos()).Line,
			endLine:   fileSet.Position(fd.End()).Line,
			params:    params,
		})
	}

	return scopes
}

func categoryOfTypeExpr(expr ast.Expr) m.OperandCategory {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return m.CategoryUnknown
	}

	if category, ok := typeCategories[ident.Name]; ok {
		return category
	}

	return m.CategoryUnknown
}

func categoryOfExpr(fileSet *token.FileSet, scopes []funcScope, expr ast.Expr) m.OperandCategory {
	switch e := expr.(type) {
	case *ast.BasicLit:
		switch e.Kind {
		case token.INT, token.FLOAT, token.CHAR:
			return m.CategoryNumeric
		case token.STRING:
			return m.CategoryText
		}

	case *ast.Ident:
		if e.Name == "true" || e.Name == "false" {
			return m.CategoryBoolean
		}

		line := fileSet.Position(e.Pos()).Line
		for _, scope := range scopes {
			if line < scope.startLine || line > scope.endLine {
				continue
			}

			if category, ok := scope.params[e.Name]; ok {
				return category
			}
		}

	case *ast.CallExpr:
		if fn, ok := e.Fun.(*ast.Ident); ok && (fn.Name == "len" || fn.Name == "cap") {
			return m.CategoryNumeric
		}

	case *ast.ParenExpr:
		return categoryOfExpr(fileSet, scopes, e.X)
	}

	return m.CategoryUnknown
}
