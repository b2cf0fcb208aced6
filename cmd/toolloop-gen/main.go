// Command toolloop-gen generates tool registrations for annotated functions.
//
// A function is picked up when its doc comment contains the line
//
//	// toolloop:tool
//
// For every Go file holding such functions a sibling <name>.tools.go file is written
// that declares one tool.Entry per function, named <function>Tool. The tool is
// advertised under the snake_case form of the function name, its parameters are
// named after the ones in the source and the doc comment is handed to tool.Doc. A
// parameter documented with a trailing "(default: expr)" gets tool.Default(name, expr),
// where expr is any Go expression valid in the package.
//
//	//go:generate go run github.com/casualjim/toolloop/cmd/toolloop-gen -path .
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/casualjim/toolloop/tool"
	"github.com/go-openapi/swag"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"mvdan.cc/gofumpt/format"
)

const (
	marker     = "toolloop:tool"
	toolImport = "github.com/casualjim/toolloop/tool"
	suffix     = ".tools.go"
	header     = "// Code generated by toolloop-gen. DO NOT EDIT."
)

var (
	log    zerolog.Logger
	osExit = os.Exit
)

func init() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}).
		With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelInfo}),
	))
}

type toolFuncInfo struct {
	name        string
	comments    []*ast.Comment
	params      []*ast.Field
	defaults    []paramDefault
	exportTools bool
}

// paramDefault is a "(default: expr)" taken from the parameter docs.
type paramDefault struct {
	name string
	expr ast.Expr
}

func main() {
	path := flag.String("path", ".", "file or directory to scan")
	exportTools := flag.Bool("export", false, "export the generated tool variables")
	flag.Parse()

	info, err := os.Stat(*path)
	if err != nil {
		slog.Error("Error accessing path", "path", *path, "error", err)
		osExit(1)
		return
	}

	if !info.IsDir() {
		if err := processGoFile(*path, *exportTools); err != nil {
			osExit(1)
		}
		return
	}

	err = filepath.WalkDir(*path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != *path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSource(p) {
			return nil
		}
		return processGoFile(p, *exportTools)
	})
	if err != nil {
		slog.Error("Error walking path", "path", *path, "error", err)
		osExit(1)
	}
}

func isSource(path string) bool {
	return strings.HasSuffix(path, ".go") &&
		!strings.HasSuffix(path, "_test.go") &&
		!strings.HasSuffix(path, suffix)
}

func processGoFile(path string, exportTools bool) error {
	fset := token.NewFileSet()
	fileAST, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		slog.Error("Error parsing file", "file", path, "error", err)
		return err
	}

	tools, err := collectTools(fileAST, exportTools)
	if err != nil {
		slog.Error("Error reading tool defaults", "file", path, "error", err)
		return err
	}
	if len(tools) == 0 {
		return nil
	}

	src, err := renderFile(createToolsFile(fileAST.Name.Name, tools))
	if err != nil {
		slog.Error("Error rendering file", "file", path, "error", err)
		return err
	}

	out := strings.TrimSuffix(path, ".go") + suffix
	if err := os.WriteFile(out, src, 0o644); err != nil {
		slog.Error("Error writing file", "file", out, "error", err)
		return err
	}
	slog.Info("Generated file", "file", out, "tools", len(tools))
	return nil
}

func collectTools(file *ast.File, exportTools bool) ([]toolFuncInfo, error) {
	var tools []toolFuncInfo
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil || fn.Doc == nil {
			continue
		}

		var annotated bool
		var comments []*ast.Comment
		for _, c := range fn.Doc.List {
			if commentText(c) == marker {
				annotated = true
				continue
			}
			comments = append(comments, c)
		}
		if !annotated {
			continue
		}
		for len(comments) > 0 && commentText(comments[len(comments)-1]) == "" {
			comments = comments[:len(comments)-1]
		}

		defaults, err := parameterDefaults(comments, parameterNames(fn.Type.Params.List))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fn.Name.Name, err)
		}

		tools = append(tools, toolFuncInfo{
			name:        fn.Name.Name,
			comments:    comments,
			params:      fn.Type.Params.List,
			defaults:    defaults,
			exportTools: exportTools,
		})
	}
	return tools, nil
}

func commentText(c *ast.Comment) string {
	return strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
}

// parameterDefaults parses the default expressions of the doc comment, in parameter
// order. A default for a name that is not a parameter is an error.
func parameterDefaults(comments []*ast.Comment, names []string) ([]paramDefault, error) {
	doc := tool.ParseDoc(joinComments(comments))
	if len(doc.Defaults) == 0 {
		return nil, nil
	}

	var defaults []paramDefault
	for _, name := range names {
		src, ok := doc.Defaults[name]
		if !ok {
			continue
		}
		expr, err := parser.ParseExpr(src)
		if err != nil {
			return nil, fmt.Errorf("default for %s: %w", name, err)
		}
		defaults = append(defaults, paramDefault{name: name, expr: expr})
		delete(doc.Defaults, name)
	}
	if len(doc.Defaults) > 0 {
		unknown := slices.Sorted(maps.Keys(doc.Defaults))
		return nil, fmt.Errorf("default for unknown parameter %s", unknown[0])
	}
	return defaults, nil
}

func joinComments(comments []*ast.Comment) string {
	lines := make([]string, len(comments))
	for i, c := range comments {
		lines[i] = c.Text
	}
	return strings.Join(lines, "\n")
}

func createToolsFile(pkgName string, tools []toolFuncInfo) *ast.File {
	decls := []ast.Decl{
		&ast.GenDecl{
			Tok: token.IMPORT,
			Specs: []ast.Spec{
				&ast.ImportSpec{Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(toolImport)}},
			},
		},
	}
	for _, t := range tools {
		decls = append(decls, createToolVariableAST(t))
	}
	return &ast.File{Name: ast.NewIdent(pkgName), Decls: decls}
}

func createToolVariableAST(info toolFuncInfo) ast.Decl {
	varName := info.name + "Tool"
	if info.exportTools {
		varName = swag.ToGoName(info.name) + "Tool"
	}

	args := []ast.Expr{
		ast.NewIdent(info.name),
		optionCall("Name", stringLit(swag.ToFileName(info.name))),
	}
	if names := parameterNames(info.params); len(names) > 0 {
		lits := make([]ast.Expr, len(names))
		for i, n := range names {
			lits[i] = stringLit(n)
		}
		args = append(args, optionCall("Parameters", lits...))
	}
	for _, d := range info.defaults {
		args = append(args, optionCall("Default", stringLit(d.name), d.expr))
	}
	if len(info.comments) > 0 {
		args = append(args, optionCall("Doc", stringLit(joinComments(info.comments))))
	}

	decl := &ast.GenDecl{
		Tok: token.VAR,
		Specs: []ast.Spec{
			&ast.ValueSpec{
				Names: []*ast.Ident{ast.NewIdent(varName)},
				Values: []ast.Expr{
					&ast.CallExpr{
						Fun:  &ast.SelectorExpr{X: ast.NewIdent("tool"), Sel: ast.NewIdent("Must")},
						Args: args,
					},
				},
			},
		},
	}
	if len(info.comments) > 0 {
		decl.Doc = &ast.CommentGroup{List: info.comments}
	}
	return decl
}

// parameterNames lists the parameter names in order, leaving out a leading
// context.Context. Unnamed parameters yield an empty name.
func parameterNames(fields []*ast.Field) []string {
	var names []string
	for i, f := range fields {
		if i == 0 && isContext(f.Type) {
			continue
		}
		if len(f.Names) == 0 {
			names = append(names, "")
			continue
		}
		for _, n := range f.Names {
			if n.Name == "_" {
				names = append(names, "")
				continue
			}
			names = append(names, n.Name)
		}
	}
	return names
}

func isContext(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "context" && sel.Sel.Name == "Context"
}

func optionCall(name string, args ...ast.Expr) ast.Expr {
	return &ast.CallExpr{
		Fun:  &ast.SelectorExpr{X: ast.NewIdent("tool"), Sel: ast.NewIdent(name)},
		Args: args,
	}
}

func stringLit(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

// renderFile prints the generated file and formats it with gofumpt. Doc comments
// are written by hand since the synthesized nodes carry no positions.
func renderFile(file *ast.File) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n\npackage %s\n", header, file.Name.Name)

	fset := token.NewFileSet()
	for _, decl := range file.Decls {
		buf.WriteString("\n")
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Doc != nil {
			for _, c := range gd.Doc.List {
				buf.WriteString(c.Text)
				buf.WriteString("\n")
			}
			undocumented := *gd
			undocumented.Doc = nil
			decl = &undocumented
		}
		if err := printer.Fprint(&buf, fset, decl); err != nil {
			return nil, err
		}
		buf.WriteString("\n")
	}

	return format.Source(buf.Bytes(), format.Options{})
}
