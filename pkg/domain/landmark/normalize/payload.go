package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"sort"

	"github.com/labstack/gommon/log"
)

// Kind of payload fields.
type Kind int

const (
	// the field is not in the payload
	Missing Kind = iota

	// the field is in the payload, explicitly as null
	Null

	// the field has a scalar value
	Text

	// the field has an uploaded file
	File
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Null:
		return "null"
	case Text:
		return "text"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// literal type of Text fields
type literal int

const (
	stringLiteral literal = iota
	numberLiteral
	boolLiteral
	structuredLiteral // JSON object or array
)

// Field is a value in payload.
//
// It is one of Missing, Null, Text (scalar value) or File (uploaded file).
// Zero value is Missing.
type Field struct {
	kind    Kind
	literal literal
	text    string
	file    *Upload
}

func NullField() Field {
	return Field{kind: Null}
}

func TextField(s string) Field {
	return Field{kind: Text, literal: stringLiteral, text: s}
}

func FileField(u *Upload) Field {
	if u == nil {
		return Field{}
	}
	return Field{kind: File, file: u}
}

func (f Field) Kind() Kind {
	return f.kind
}

// Text returns the scalar value.
//
// The second return value is false unless the field is Text.
func (f Field) Text() (string, bool) {
	if f.kind != Text {
		return "", false
	}
	return f.text, true
}

// File returns the uploaded file.
//
// The second return value is false unless the field is File.
func (f Field) File() (*Upload, bool) {
	if f.kind != File {
		return nil, false
	}
	return f.file, true
}

// Upload is a file uploaded with a request.
type Upload struct {
	Filename string
	Size     int64

	// content type declared by client.
	//
	// After normalization, it is replaced with the content type detected from the content.
	ContentType string

	open func() (io.ReadCloser, error)
}

// NewUpload creates an Upload.
//
// # Args
//
// - filename: file name declared by client.
//
// - size: size in bytes.
//
// - contentType: content type declared by client.
//
// - open: function opening the content. It can be called more than once.
func NewUpload(filename string, size int64, contentType string, open func() (io.ReadCloser, error)) *Upload {
	return &Upload{Filename: filename, Size: size, ContentType: contentType, open: open}
}

// UploadFromBytes creates an Upload with in-memory content.
func UploadFromBytes(filename string, contentType string, content []byte) *Upload {
	return NewUpload(
		filename, int64(len(content)), contentType,
		func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	)
}

func (u *Upload) Open() (io.ReadCloser, error) {
	return u.open()
}

// Payload is a set of fields in a request, keyed by field names.
type Payload map[string]Field

// Get returns the field. If the field is not in the payload, it returns Missing field.
func (p Payload) Get(name string) Field {
	if f, ok := p[name]; ok {
		return f
	}
	return Field{}
}

var ErrNotAnObject = errors.New("payload should be a JSON object")

// FromJSON reads JSON object as payload.
//
// Empty body is read as an empty payload.
func FromJSON(r io.Reader) (Payload, error) {
	raw := map[string]json.RawMessage{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Payload{}, nil
		}
		if ute := new(json.UnmarshalTypeError); errors.As(err, &ute) {
			return nil, ErrNotAnObject
		}
		return nil, err
	}
	if raw == nil { // body was "null"
		return nil, ErrNotAnObject
	}

	payload := make(Payload, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 {
			continue
		}
		switch v[0] {
		case 'n':
			payload[k] = NullField()
		case '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, err
			}
			payload[k] = TextField(s)
		case 't', 'f':
			payload[k] = Field{kind: Text, literal: boolLiteral, text: string(v)}
		case '{', '[':
			payload[k] = Field{kind: Text, literal: structuredLiteral, text: string(v)}
		default:
			// numbers are kept as literal, not to lose precision.
			payload[k] = Field{kind: Text, literal: numberLiteral, text: string(v)}
		}
	}
	return payload, nil
}

// FromMultipart reads multipart form as payload.
//
// When a key has more than one value, the last one is used.
// When a key has both of file and value, the file is used.
func FromMultipart(form *multipart.Form) Payload {
	payload := Payload{}
	if form == nil {
		return payload
	}
	for k, vs := range form.Value {
		if len(vs) == 0 {
			continue
		}
		payload[k] = TextField(vs[len(vs)-1])
	}
	for k, fhs := range form.File {
		if len(fhs) == 0 {
			continue
		}
		fh := fhs[len(fhs)-1]
		payload[k] = FileField(NewUpload(
			fh.Filename, fh.Size, fh.Header.Get("Content-Type"),
			func() (io.ReadCloser, error) { return fh.Open() },
		))
	}
	return payload
}

// Describe the shape of the payload, for logging.
//
// Values of text fields are not included, only their length.
func Describe(p Payload) log.JSON {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)

	fields := make(log.JSON, len(p))
	for _, name := range names {
		f := p[name]
		desc := log.JSON{"kind": f.kind.String()}
		switch f.kind {
		case Text:
			desc["length"] = len([]rune(f.text))
		case File:
			desc["filename"] = f.file.Filename
			desc["size"] = f.file.Size
			desc["content_type"] = f.file.ContentType
		}
		fields[name] = desc
	}
	return log.JSON{"fields": fields, "names": names}
}
