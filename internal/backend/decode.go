package backend

import (
	"fmt"

	"github.com/Veraticus/search-term-analyzer/internal/common"
	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/tidwall/gjson"
)

// RemoteError is a non-2xx answer from the classification service.
// Error returns the message meant for the user, verbatim.
type RemoteError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// DecodeResult parses a /process response body. Missing collections decode
// as empty; malformed rows are skipped.
func DecodeResult(body []byte) (model.ClassificationResult, error) {
	if !gjson.ValidBytes(body) {
		return model.ClassificationResult{}, fmt.Errorf("%w: response is not valid JSON", common.ErrProcessingFailed)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return model.ClassificationResult{}, fmt.Errorf("%w: response is not a JSON object", common.ErrProcessingFailed)
	}

	return model.ClassificationResult{
		Positive: model.Bucket{
			NoB0:   decodeRows(root.Get("positive.no_b0")),
			OnlyB0: decodeRows(root.Get("positive.only_b0")),
		},
		Negative: model.Bucket{
			NoB0:   decodeRows(root.Get("negative.no_b0")),
			OnlyB0: decodeRows(root.Get("negative.only_b0")),
		},
	}, nil
}

func decodeRows(list gjson.Result) []model.Row {
	rows := []model.Row{}
	if !list.IsArray() {
		return rows
	}

	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		row := make(model.Row)
		item.ForEach(func(key, value gjson.Result) bool {
			row[key.String()] = decodeValue(value)
			return true
		})
		rows = append(rows, row)
		return true
	})

	return rows
}

func decodeValue(v gjson.Result) model.Value {
	switch v.Type {
	case gjson.Null:
		return model.Null()
	case gjson.Number:
		return model.Number(v.Num)
	case gjson.String:
		return model.String(v.Str)
	default:
		return model.String(v.Raw)
	}
}

// errorMessage extracts the "error" field of a failure body, or fallback.
func errorMessage(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	msg := gjson.GetBytes(body, "error")
	if msg.Type != gjson.String || msg.Str == "" {
		return fallback
	}
	return msg.Str
}
