package tui

import (
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"slices"
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestKeymapCompleteness validates that all key.Matches calls in focus mode handlers
// are represented in the corresponding keymap's help display.
// This ensures when new keybindings are added to handlers, they're also added to help.
func TestKeymapCompleteness(t *testing.T) {
	tests := []struct {
		name         string
		functionName string
		keymap       help.KeyMap
	}{
		{
			name:         "switchTableFocusMode uses defaultKeyMap",
			functionName: "switchTableFocusMode",
			keymap:       defaultKeyMap,
		},
		{
			name:         "switchRecordFocusMode uses recordViewKeyMap",
			functionName: "switchRecordFocusMode",
			keymap:       recordViewKeyMap,
		},
		{
			name:         "switchInputFocusMode uses inputModeKeyMap",
			functionName: "switchInputFocusMode",
			keymap:       inputModeKeyMap,
		},
		{
			name:         "switchDialogFocusMode uses dialogKeyMap",
			functionName: "switchDialogFocusMode",
			keymap:       dialogKeyMap,
		},
		{
			name:         "switchMenuFocusMode uses menuKeyMap",
			functionName: "switchMenuFocusMode",
			keymap:       menuKeyMap,
		},
		{
			name:         "switchErrorFocusMode uses errorViewKeyMap",
			functionName: "switchErrorFocusMode",
			keymap:       errorViewKeyMap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Parse the msgHandlers.go file to extract key.Matches calls
			matchedKeys := extractKeyMatchesFromFunction(t, "msgHandlers.go", tt.functionName, "defaultKeyMap")
			require.NotEmpty(t, matchedKeys, "no key.Matches calls found in %s", tt.functionName)

			var helpBindings []key.Binding
			helpBindings = append(helpBindings, tt.keymap.ShortHelp()...)
			for _, column := range tt.keymap.FullHelp() {
				helpBindings = append(helpBindings, column...)
			}

			for _, field := range matchedKeys {
				binding := bindingByName(t, field)
				found := slices.ContainsFunc(helpBindings, func(b key.Binding) bool {
					return reflect.DeepEqual(b.Keys(), binding.Keys())
				})
				assert.True(t, found,
					"Key binding '%s' is used in %s via key.Matches but not present in help display. "+
						"Please add it to the keymap's ShortHelp() or FullHelp() method.",
					field, tt.functionName)
			}
		})
	}
}

func TestKeyBindingsHaveHelp(t *testing.T) {
	val := reflect.ValueOf(defaultKeyMap)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		b := val.Field(i).Interface().(key.Binding)
		assert.NotEmpty(t, b.Keys(), "%s has no keys", typ.Field(i).Name)
		assert.NotEmpty(t, b.Help().Desc, "%s has no help text", typ.Field(i).Name)
	}
}

// extractKeyMatchesFromFunction parses a Go source file and extracts all field names
// used in key.Matches calls within the specified function
func extractKeyMatchesFromFunction(t *testing.T, filename, functionName, keymapName string) []string {
	t.Helper()
	var matchedKeys []string

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, nil, 0)
	require.NoError(t, err)

	var targetFunc *ast.FuncDecl
	for _, decl := range node.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == functionName {
			targetFunc = fn
			break
		}
	}
	require.NotNil(t, targetFunc, "function %s not found in %s", functionName, filename)

	ast.Inspect(targetFunc, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok {
			return true
		}

		ident, ok := sel.X.(*ast.Ident)
		if !ok || ident.Name != "key" || sel.Sel.Name != "Matches" || len(call.Args) < 2 {
			return true
		}

		// Second argument should be something like defaultKeyMap.Enter
		if selExpr, ok := call.Args[1].(*ast.SelectorExpr); ok {
			if ident, ok := selExpr.X.(*ast.Ident); ok && ident.Name == keymapName {
				matchedKeys = append(matchedKeys, selExpr.Sel.Name)
			}
		}

		return true
	})

	return matchedKeys
}

func bindingByName(t *testing.T, name string) key.Binding {
	t.Helper()
	f := reflect.ValueOf(defaultKeyMap).FieldByName(name)
	require.True(t, f.IsValid(), "defaultKeyMap has no field %s", name)
	return f.Interface().(key.Binding)
}
