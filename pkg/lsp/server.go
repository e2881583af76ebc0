package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.tally.sh/pkg/compile"
	"src.tally.sh/pkg/diag"
	"src.tally.sh/pkg/logutil"
	"src.tally.sh/pkg/parse"
)

var logger = logutil.GetLogger("[lsp] ")

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		"textDocument/documentSymbol": s.documentSymbol,

		"shutdown": noop,
		"exit":     noop,
		// Required by the protocol.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Printf("method not found: %s", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:          true,
			CompletionProvider:     &lsp.CompletionOptions{},
			DocumentSymbolProvider: true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.content[uri] = content
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	src := parse.Source{Name: string(params.TextDocument.URI), Code: content}
	tokens, err := parse.Lex(src)
	if err != nil {
		return lsp.Hover{}, nil
	}
	idx := lspPositionToIdx(content, params.Position)
	var tok *parse.Token
	for i := range tokens {
		if tokens[i].Kind == parse.Identifier && tokens[i].From <= idx && idx <= tokens[i].To {
			tok = &tokens[i]
			break
		}
	}
	if tok == nil {
		return lsp.Hover{}, nil
	}

	var msg string
	if sym, ok := declaredSymbols(src).Lookup(tok.Lexeme); ok {
		pos := diag.PositionOf(content, sym.From)
		msg = fmt.Sprintf("variable %s, first assigned at line %d, column %d",
			sym.Name, pos.Line, pos.Col)
	} else {
		msg = fmt.Sprintf("variable %s is never assigned", tok.Lexeme)
	}
	r := lspRangeFromRange(content, tok)
	return lsp.Hover{Contents: []lsp.MarkedString{lsp.RawMarkedString(msg)}, Range: &r}, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.content[params.TextDocument.URI]
	dot := lspPositionToIdx(content, params.Position)
	start := dot
	for start > 0 && isWordByte(content[start-1]) {
		start--
	}
	prefix := content[start:dot]
	lspRange := lspRangeFromRange(content, diag.Ranging{From: start, To: dot})

	items := []lsp.CompletionItem{}
	add := func(label string, kind lsp.CompletionItemKind) {
		if strings.HasPrefix(label, prefix) {
			items = append(items, lsp.CompletionItem{
				Label: label,
				Kind:  kind,
				TextEdit: &lsp.TextEdit{
					Range:   lspRange,
					NewText: label,
				},
			})
		}
	}
	keywords := parse.Keywords()
	sort.Strings(keywords)
	for _, kw := range keywords {
		add(kw, lsp.CIKKeyword)
	}
	names := declaredSymbols(parse.Source{Name: string(params.TextDocument.URI), Code: content}).Names()
	sort.Strings(names)
	for _, name := range names {
		add(name, lsp.CIKVariable)
	}
	return items, nil
}

func (s *server) documentSymbol(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DocumentSymbolParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri := params.TextDocument.URI
	content := s.content[uri]
	infos := []lsp.SymbolInformation{}
	for _, sym := range declaredSymbols(parse.Source{Name: string(uri), Code: content}).All() {
		infos = append(infos, lsp.SymbolInformation{
			Name:     sym.Name,
			Kind:     lsp.SKVariable,
			Location: lsp.Location{URI: uri, Range: lspRangeFromRange(content, sym)},
		})
	}
	return infos, nil
}

// declaredSymbols returns the symbols declared in the source. If the source
// doesn't parse, every identifier following a 'let' counts as declared.
func declaredSymbols(src parse.Source) *parse.Symbols {
	tree, err := parse.Parse(src)
	if err == nil {
		return tree.Symbols
	}
	symbols := parse.NewSymbols()
	tokens, _ := parse.Lex(src)
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Kind == parse.Identifier && tokens[i-1].Kind == parse.KwLet {
			symbols.Declare(tokens[i].Lexeme, tokens[i])
		}
	}
	return symbols
}

func isWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(uri, content)})
}

// diagnostics reports the first lex, parse or static error in the content.
func diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	tree, err := parse.Parse(parse.Source{Name: string(uri), Code: content})
	if err == nil {
		_, err = compile.Compile(tree, compile.Config{})
	}
	if err == nil {
		return []lsp.Diagnostic{}
	}

	var e *diag.Error
	if !errors.As(err, &e) {
		return []lsp.Diagnostic{{Severity: lsp.Error, Source: "tally", Message: err.Error()}}
	}
	return []lsp.Diagnostic{{
		Range:    lspRangeFromRange(content, e),
		Severity: lsp.Error,
		Source:   e.Type,
		Message:  e.Message,
	}}
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
