package interp

import (
	"encoding/json"
	"errors"

	"src.tally.sh/pkg/diag"
)

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	Type     string `json:"type"`
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
}

// An auxiliary struct for converting errors with only a message to JSON.
type simpleErrorInJSON struct {
	Message string `json:"message"`
}

// Converts the error into JSON.
func errorToJSON(err error) []byte {
	var e any
	var derr *diag.Error
	if errors.As(err, &derr) {
		pos := derr.Position()
		e = []any{
			errorInJSON{derr.Type, derr.Context.Name, derr.Context.From, derr.Context.To,
				pos.Line, pos.Col, derr.Message},
		}
	} else {
		e = []any{simpleErrorInJSON{err.Error()}}
	}
	jsonError, errMarshal := json.Marshal(e)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
