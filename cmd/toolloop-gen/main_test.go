package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput captures both zerolog and slog output during test execution
func captureOutput(fn func()) string {
	var buf bytes.Buffer

	oldZeroLogger := log
	oldSlogLogger := slog.Default()
	defer func() {
		log = oldZeroLogger
		slog.SetDefault(oldSlogLogger)
	}()

	output := zerolog.ConsoleWriter{
		Out:        &buf,
		NoColor:    true,
		TimeFormat: time.Stamp,
	}
	log = zerolog.New(output).With().Timestamp().Logger()

	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelDebug}),
	))

	fn()
	return buf.String()
}

func TestCollectTools(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		exportTools bool
		want        []toolFuncInfo
		wantErr     bool
	}{
		{
			name: "single tool function",
			fileContent: `package test
// toolloop:tool
// This is a test tool
func testTool(param1 string) {}`,
			want: []toolFuncInfo{
				{
					name:     "testTool",
					comments: []*ast.Comment{{Text: "// This is a test tool"}},
				},
			},
		},
		{
			name: "multiple tool functions",
			fileContent: `package test
// toolloop:tool
// Tool 1
func tool1(param1 string) {}

// Not a tool
func notATool() {}

// Tool 2
//
// toolloop:tool
func tool2(param1, param2 int) {}`,
			exportTools: true,
			want: []toolFuncInfo{
				{
					name:        "tool1",
					comments:    []*ast.Comment{{Text: "// Tool 1"}},
					exportTools: true,
				},
				{
					name:        "tool2",
					comments:    []*ast.Comment{{Text: "// Tool 2"}},
					exportTools: true,
				},
			},
		},
		{
			name: "defaults in parameter order",
			fileContent: `package test
// Forecast the weather.
//
// Parameters:
//   - days: Number of days (default: 3)
//   - unit: The unit (default: Celsius)
//
// toolloop:tool
func forecast(ctx context.Context, unit Unit, days int) {}`,
			want: []toolFuncInfo{
				{
					name: "forecast",
					comments: []*ast.Comment{
						{Text: "// Forecast the weather."},
						{Text: "//"},
						{Text: "// Parameters:"},
						{Text: "//   - days: Number of days (default: 3)"},
						{Text: "//   - unit: The unit (default: Celsius)"},
					},
					defaults: []paramDefault{
						{name: "unit", expr: &ast.Ident{Name: "Celsius"}},
						{name: "days", expr: &ast.BasicLit{Kind: token.INT, Value: "3"}},
					},
				},
			},
		},
		{
			name: "default that is not an expression",
			fileContent: `package test
// Parameters:
//   - days: Number of days (default: 3 +)
// toolloop:tool
func forecast(days int) {}`,
			wantErr: true,
		},
		{
			name: "default for an unknown parameter",
			fileContent: `package test
// Parameters:
//   - weeks: Number of weeks (default: 3)
// toolloop:tool
func forecast(days int) {}`,
			wantErr: true,
		},
		{
			name: "methods are ignored",
			fileContent: `package test
type svc struct{}
// toolloop:tool
func (svc) method() {}`,
			want: nil,
		},
		{
			name: "no tool functions",
			fileContent: `package test
func regular() {}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fset := token.NewFileSet()
			fileAST, err := parser.ParseFile(fset, "", tt.fileContent, parser.ParseComments)
			require.NoError(t, err)

			got, err := collectTools(fileAST, tt.exportTools)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, len(tt.want), len(got))

			for i, want := range tt.want {
				assert.Equal(t, want.name, got[i].name)
				require.Equal(t, len(want.comments), len(got[i].comments))
				for j, comment := range want.comments {
					assert.Equal(t, comment.Text, got[i].comments[j].Text)
				}
				assert.Equal(t, want.exportTools, got[i].exportTools)
				require.Equal(t, len(want.defaults), len(got[i].defaults))
				for j, d := range want.defaults {
					assert.Equal(t, d.name, got[i].defaults[j].name)
					assert.Equal(t, exprString(t, d.expr), exprString(t, got[i].defaults[j].expr))
				}
			}
		})
	}
}

func exprString(t *testing.T, expr ast.Expr) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, printer.Fprint(&buf, token.NewFileSet(), expr))
	return buf.String()
}

func TestParameterNames(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{name: "none", src: `func f() {}`, want: nil},
		{name: "grouped", src: `func f(a, b int, c string) {}`, want: []string{"a", "b", "c"}},
		{name: "context is skipped", src: `func f(ctx context.Context, city string) {}`, want: []string{"city"}},
		{name: "blank", src: `func f(_ int, b int) {}`, want: []string{"", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileAST, err := parser.ParseFile(token.NewFileSet(), "", "package test\n"+tt.src, 0)
			require.NoError(t, err)

			fn := fileAST.Decls[0].(*ast.FuncDecl)
			assert.Equal(t, tt.want, parameterNames(fn.Type.Params.List))
		})
	}
}

func TestCreateToolsFile(t *testing.T) {
	tests := []struct {
		name      string
		pkgName   string
		toolFuncs []toolFuncInfo
		wantDecls int
	}{
		{
			name:      "empty tools",
			pkgName:   "test",
			toolFuncs: []toolFuncInfo{},
			wantDecls: 1,
		},
		{
			name:    "single tool",
			pkgName: "test",
			toolFuncs: []toolFuncInfo{
				{
					name:     "testTool",
					comments: []*ast.Comment{{Text: "// Test tool description"}},
					params: []*ast.Field{
						{
							Names: []*ast.Ident{{Name: "param1"}},
							Type:  &ast.Ident{Name: "string"},
						},
					},
				},
			},
			wantDecls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := createToolsFile(tt.pkgName, tt.toolFuncs)
			assert.Equal(t, tt.pkgName, got.Name.Name)
			assert.Equal(t, tt.wantDecls, len(got.Decls))
		})
	}
}

func TestCreateToolVariableAST(t *testing.T) {
	tests := []struct {
		name     string
		tool     toolFuncInfo
		wantName string
	}{
		{
			name: "basic tool",
			tool: toolFuncInfo{
				name:     "testTool",
				comments: []*ast.Comment{{Text: "// Test description"}},
				params: []*ast.Field{
					{
						Names: []*ast.Ident{{Name: "param1"}},
						Type:  &ast.Ident{Name: "string"},
					},
				},
			},
			wantName: "testToolTool",
		},
		{
			name: "exported tool",
			tool: toolFuncInfo{
				name:        "testTool",
				comments:    []*ast.Comment{{Text: "// Test description"}},
				exportTools: true,
			},
			wantName: "TestToolTool",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decl := createToolVariableAST(tt.tool)
			genDecl, ok := decl.(*ast.GenDecl)
			require.True(t, ok)
			assert.Equal(t, token.VAR, genDecl.Tok)

			spec, ok := genDecl.Specs[0].(*ast.ValueSpec)
			require.True(t, ok)
			assert.Equal(t, tt.wantName, spec.Names[0].Name)

			if len(tt.tool.comments) > 0 {
				assert.Equal(t, tt.tool.comments[0].Text, genDecl.Doc.List[0].Text)
			}
		})
	}
}

func TestRenderFile(t *testing.T) {
	src := `package weather

import "context"

type Unit string

const Celsius Unit = "celsius"

// getWeather returns the current weather.
//
// Parameters:
//   - location: The city and state
//   - unit: The temperature unit (default: Celsius)
//
// toolloop:tool
func getWeather(ctx context.Context, location string, unit Unit) (string, error) { return "", nil }`

	fileAST, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ParseComments)
	require.NoError(t, err)

	tools, err := collectTools(fileAST, false)
	require.NoError(t, err)
	out, err := renderFile(createToolsFile("weather", tools))
	require.NoError(t, err)

	generated := string(out)
	assert.Contains(t, generated, "DO NOT EDIT")
	assert.Contains(t, generated, "package weather")
	assert.Contains(t, generated, `"github.com/casualjim/toolloop/tool"`)
	assert.Contains(t, generated, "// getWeather returns the current weather.\n")
	assert.Contains(t, generated, "var getWeatherTool = tool.Must(")
	assert.Contains(t, generated, `tool.Name("get_weather")`)
	assert.Contains(t, generated, `tool.Parameters("location", "unit")`)
	assert.Contains(t, generated, `tool.Default("unit", Celsius)`)
	assert.Contains(t, generated, `tool.Doc(`)
	assert.Contains(t, generated, "(default: Celsius)\nvar getWeatherTool")
	assert.NotContains(t, generated, "//\nvar")
	assert.NotContains(t, generated, `\n//"`)

	_, err = parser.ParseFile(token.NewFileSet(), "", out, parser.ParseComments)
	assert.NoError(t, err)
}

func TestProcessGoFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		content     string
		exportTools bool
		wantErr     bool
		checkFile   bool
	}{
		{
			name: "valid file with tool",
			content: `package test
// toolloop:tool
// Test tool
func testTool(param string) {}`,
			checkFile: true,
		},
		{
			name: "invalid go file",
			content: `package test
invalid go code`,
			wantErr: true,
		},
		{
			name: "file without tools",
			content: `package test
func regular() {}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tmpDir, tt.name+".go")
			err := os.WriteFile(testFile, []byte(tt.content), 0o644)
			require.NoError(t, err)

			output := captureOutput(func() {
				err = processGoFile(testFile, tt.exportTools)
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, output, "Error parsing file")
				return
			}
			assert.NoError(t, err)
			if tt.checkFile {
				assert.Contains(t, output, "Generated file")
			}

			generated := filepath.Join(tmpDir, tt.name+".tools.go")
			if tt.checkFile {
				assert.FileExists(t, generated)
				content, err := os.ReadFile(generated)
				require.NoError(t, err)
				assert.Contains(t, string(content), "DO NOT EDIT")
			} else {
				_, err := os.Stat(generated)
				assert.True(t, os.IsNotExist(err))
			}
		})
	}
}

func TestMainFunction(t *testing.T) {
	tmpDir := t.TempDir()

	validDir := filepath.Join(tmpDir, "valid")
	require.NoError(t, os.MkdirAll(validDir, 0o755))

	validFile := filepath.Join(validDir, "valid.go")
	err := os.WriteFile(validFile, []byte(`package test
// toolloop:tool
// Test tool
func testTool(param string) {}`), 0o644)
	require.NoError(t, err)

	invalidDir := filepath.Join(tmpDir, "invalid")
	require.NoError(t, os.MkdirAll(invalidDir, 0o755))

	invalidFile := filepath.Join(invalidDir, "invalid.go")
	err = os.WriteFile(invalidFile, []byte("invalid go code"), 0o644)
	require.NoError(t, err)

	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "process directory",
			args:       []string{"-path", validDir},
			wantOutput: "Generated file",
		},
		{
			name:       "process single valid file",
			args:       []string{"-path", validFile},
			wantOutput: "Generated file",
		},
		{
			name:       "process single invalid file",
			args:       []string{"-path", invalidFile},
			wantErr:    true,
			wantOutput: "Error parsing file",
		},
		{
			name:       "invalid path",
			args:       []string{"-path", "/nonexistent/path"},
			wantErr:    true,
			wantOutput: "Error accessing path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			defer func() { os.Args = origArgs }()

			os.Args = append([]string{"cmd"}, tt.args...)
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			var exitCode int
			oldOsExit := osExit
			defer func() { osExit = oldOsExit }()
			osExit = func(code int) {
				exitCode = code
				panic(fmt.Sprintf("os.Exit(%d)", code))
			}

			output := captureOutput(func() {
				defer func() {
					if r := recover(); r != nil {
						t.Logf("Recovered from panic: %v", r)
					}
				}()
				main()
			})

			if tt.wantErr {
				assert.Equal(t, 1, exitCode)
			} else {
				assert.Equal(t, 0, exitCode)
			}
			assert.Contains(t, output, tt.wantOutput)
		})
	}
}
