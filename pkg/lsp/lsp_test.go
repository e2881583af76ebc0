package lsp

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.tally.sh/pkg/must"
	"src.tally.sh/pkg/prog"
)

const testURI = lsp.DocumentURI("file:///test.tly")

func TestInitialize(t *testing.T) {
	f := setup(t)

	var result lsp.InitializeResult
	f.call(t, "initialize", lsp.InitializeParams{}, &result)
	caps := result.Capabilities
	if !caps.HoverProvider || caps.CompletionProvider == nil || !caps.DocumentSymbolProvider {
		t.Errorf("got capabilities %+v", caps)
	}
	if opts := caps.TextDocumentSync.Options; opts == nil || opts.Change != lsp.TDSKFull {
		t.Errorf("got text document sync %+v", caps.TextDocumentSync)
	}
}

var diagnosticsTests = []struct {
	name string
	text string
	want []lsp.Diagnostic
}{
	{
		name: "no error",
		text: "let x = 1;\nx + 1;",
		want: []lsp.Diagnostic{},
	},
	{
		name: "lex error",
		text: "let x = 1 $ 2;",
		want: []lsp.Diagnostic{{
			Range:    lspRange(0, 10, 0, 11),
			Severity: lsp.Error, Source: "lex error",
			Message: "unexpected character '$'",
		}},
	},
	{
		name: "parse error",
		text: "let x = 1;\nlet y = x < 2;",
		want: []lsp.Diagnostic{{
			Range:    lspRange(1, 8, 1, 13),
			Severity: lsp.Error, Source: "parse error",
			Message: "cannot assign a comparison; use a ternary to choose a value",
		}},
	},
	{
		name: "name error",
		text: "let x = 1;\nlet y = nope;",
		want: []lsp.Diagnostic{{
			Range:    lspRange(1, 8, 1, 12),
			Severity: lsp.Error, Source: "name error",
			Message: "variable nope is not bound",
		}},
	},
}

func TestDidOpen_PublishesDiagnostics(t *testing.T) {
	f := setup(t)
	for _, test := range diagnosticsTests {
		t.Run(test.name, func(t *testing.T) {
			f.notify(t, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
				TextDocument: lsp.TextDocumentItem{URI: testURI, Text: test.text}})
			checkDiagnostics(t, f.nextDiagnostics(t), test.want)
		})
	}
}

func TestDidChange_PublishesDiagnostics(t *testing.T) {
	f := setup(t)
	f.notify(t, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, Text: ""}})
	f.nextDiagnostics(t)

	test := diagnosticsTests[2]
	f.notify(t, "textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument: lsp.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: testURI}},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: test.text}}})
	checkDiagnostics(t, f.nextDiagnostics(t), test.want)
}

func TestCompletion(t *testing.T) {
	f := setup(t)
	text := "let total = 1;\nlet tmp = 2;\nt"
	f.notify(t, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, Text: text}})
	f.nextDiagnostics(t)

	var items []lsp.CompletionItem
	f.call(t, "textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
			Position:     lsp.Position{Line: 2, Character: 1}}}, &items)

	replace := lspRange(2, 0, 2, 1)
	want := []lsp.CompletionItem{
		{Label: "tmp", Kind: lsp.CIKVariable, TextEdit: &lsp.TextEdit{Range: replace, NewText: "tmp"}},
		{Label: "total", Kind: lsp.CIKVariable, TextEdit: &lsp.TextEdit{Range: replace, NewText: "total"}},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("completion (-want +got):\n%s", diff)
	}
}

func TestCompletion_Keywords(t *testing.T) {
	f := setup(t)
	f.notify(t, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, Text: "el"}})
	f.nextDiagnostics(t)

	var items []lsp.CompletionItem
	f.call(t, "textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
			Position:     lsp.Position{Line: 0, Character: 2}}}, &items)

	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	if diff := cmp.Diff([]string{"elif", "else"}, labels); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}
}

func TestHover(t *testing.T) {
	f := setup(t)
	text := "let n = 1;\nlet m = n + zz;"
	f.notify(t, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, Text: text}})
	f.nextDiagnostics(t)

	hover := func(line, char int) map[string]any {
		var result map[string]any
		f.call(t, "textDocument/hover", lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: testURI},
			Position:     lsp.Position{Line: line, Character: char}}, &result)
		return result
	}
	if got := hover(1, 8)["contents"]; !cmp.Equal(got,
		[]any{"variable n, first assigned at line 1, column 5"}) {
		t.Errorf("hover on n -> %v", got)
	}
	if got := hover(1, 13)["contents"]; !cmp.Equal(got,
		[]any{"variable zz is never assigned"}) {
		t.Errorf("hover on zz -> %v", got)
	}
	if got := hover(0, 7)["contents"]; got != nil && !cmp.Equal(got, []any{}) {
		t.Errorf("hover on = -> %v", got)
	}
}

func TestDocumentSymbol(t *testing.T) {
	f := setup(t)
	text := "let b = 1;\nlet a = b;\nlet b = 2;"
	f.notify(t, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: testURI, Text: text}})
	f.nextDiagnostics(t)

	var infos []lsp.SymbolInformation
	f.call(t, "textDocument/documentSymbol", lsp.DocumentSymbolParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: testURI}}, &infos)

	want := []lsp.SymbolInformation{
		{Name: "b", Kind: lsp.SKVariable,
			Location: lsp.Location{URI: testURI, Range: lspRange(0, 4, 0, 5)}},
		{Name: "a", Kind: lsp.SKVariable,
			Location: lsp.Location{URI: testURI, Range: lspRange(1, 4, 1, 5)}},
	}
	if diff := cmp.Diff(want, infos); diff != "" {
		t.Errorf("document symbols (-want +got):\n%s", diff)
	}
}

func TestUnknownMethod(t *testing.T) {
	f := setup(t)
	err := f.conn.Call(context.Background(), "unknown/method", struct{}{}, nil)
	if rpcErr, ok := err.(*jsonrpc2.Error); !ok || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
}

func checkDiagnostics(t *testing.T, got lsp.PublishDiagnosticsParams, want []lsp.Diagnostic) {
	t.Helper()
	if got.URI != testURI {
		t.Errorf("got URI %q", got.URI)
	}
	if diff := cmp.Diff(want, got.Diagnostics); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func lspRange(l1, c1, l2, c2 int) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: l1, Character: c1},
		End:   lsp.Position{Line: l2, Character: c2}}
}

type fixture struct {
	conn        *jsonrpc2.Conn
	diagnostics chan lsp.PublishDiagnosticsParams
}

// setup runs the language server as a program connected to a client through
// pipes.
func setup(t *testing.T) *fixture {
	r0, w0 := must.Pipe()
	r1, w1 := must.Pipe()
	done := make(chan int)
	go func() {
		done <- prog.Run([3]*os.File{r0, w1, os.Stderr}, []string{"tally", "-lsp"}, &Program{})
	}()

	f := &fixture{diagnostics: make(chan lsp.PublishDiagnosticsParams, 10)}
	f.conn = jsonrpc2.NewConn(context.Background(),
		jsonrpc2.NewBufferedStream(transport{r1, w0}, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
				var params lsp.PublishDiagnosticsParams
				if json.Unmarshal(*req.Params, &params) == nil {
					f.diagnostics <- params
				}
			}
			return nil, nil
		}))
	t.Cleanup(func() {
		f.conn.Close()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("language server did not exit")
		}
	})
	return f
}

func (f *fixture) call(t *testing.T, method string, params, result any) {
	t.Helper()
	if err := f.conn.Call(context.Background(), method, params, result); err != nil {
		t.Fatalf("call %s: %v", method, err)
	}
}

func (f *fixture) notify(t *testing.T, method string, params any) {
	t.Helper()
	if err := f.conn.Notify(context.Background(), method, params); err != nil {
		t.Fatalf("notify %s: %v", method, err)
	}
}

func (f *fixture) nextDiagnostics(t *testing.T) lsp.PublishDiagnosticsParams {
	t.Helper()
	select {
	case params := <-f.diagnostics:
		return params
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
		panic("unreachable")
	}
}
