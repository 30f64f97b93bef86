package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsonview/internal/errors" // Custom errors package
	"github.com/mcncl/jsonview/internal/models"
)

// Parse converts JSON data from an io.Reader into a Value. Mapping keys keep
// the order in which they appear in the input.
func Parse(reader io.Reader) (models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Keep number literals as written

	rootValue, err := decodeValue(decoder)
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Value{}, wrapDecodeError(err)
	}

	// Anything other than a clean EOF after the root is trailing data.
	if _, err := decoder.Token(); err != nil {
		if !stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
		}
	} else {
		return models.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return rootValue, nil
}

// decodeValue reads one complete value from the token stream.
func decodeValue(decoder *json.Decoder) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return models.Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '[':
			return decodeSequence(decoder)
		case '{':
			return decodeMapping(decoder)
		default:
			return models.Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return models.StringValue(t), nil
	case json.Number:
		return models.NumberValue(t), nil
	case bool:
		return models.BoolValue(t), nil
	case nil:
		return models.NullValue(), nil
	default:
		return models.Value{}, fmt.Errorf("unexpected token %v", t)
	}
}

func decodeSequence(decoder *json.Decoder) (models.Value, error) {
	items := make([]models.Value, 0)
	for decoder.More() {
		item, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		items = append(items, item)
	}
	if err := expectDelim(decoder, ']'); err != nil {
		return models.Value{}, err
	}
	return models.SequenceValue(items...), nil
}

func decodeMapping(decoder *json.Decoder) (models.Value, error) {
	fields := make([]models.Field, 0)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return models.Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		val, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		fields = append(fields, models.Field{Key: key, Value: val})
	}
	if err := expectDelim(decoder, '}'); err != nil {
		return models.Value{}, err
	}
	return models.MappingValue(fields...), nil
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	tok, err := decoder.Token()
	if err != nil {
		return unexpectedEOF(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", rune(want), tok)
	}
	return nil
}

// unexpectedEOF turns an EOF inside a container into io.ErrUnexpectedEOF so it
// is not mistaken for empty input.
func unexpectedEOF(err error) error {
	if stderrors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func wrapDecodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
}

// ParseBytes parses a JSON payload held in memory.
func ParseBytes(data []byte) (models.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	return Parse(bytes.NewReader(data))
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Value{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		_ = file.Close()
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
