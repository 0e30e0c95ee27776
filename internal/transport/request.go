package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/sideko-inc/sideko/pkg/errors"
	"github.com/sideko-inc/sideko/pkg/logging"
)

// Body encodes a request payload.
type Body interface {
	Encode() (io.Reader, string, error)
}

// JSONBody encodes Value as application/json.
type JSONBody struct {
	Value any
}

// Encode implements Body.
func (b JSONBody) Encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.Value)
	if err != nil {
		return nil, "", errors.WrapParse("json", "request body", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// FormFile is a file part of a multipart upload. Content is read from Path
// when Reader is nil.
type FormFile struct {
	Field       string
	Path        string
	Name        string
	ContentType string
	Reader      io.Reader
}

// MultipartBody encodes form fields and files as multipart/form-data.
// Parts are streamed, so large archives are never held in memory.
type MultipartBody struct {
	Fields [][2]string
	Files  []FormFile
}

// AddField appends a text field.
func (b *MultipartBody) AddField(name, value string) {
	b.Fields = append(b.Fields, [2]string{name, value})
}

// AddFile appends a file part read from path.
func (b *MultipartBody) AddFile(field, path, contentType string) {
	b.Files = append(b.Files, FormFile{Field: field, Path: path, ContentType: contentType})
}

// Encode implements Body.
func (b *MultipartBody) Encode() (io.Reader, string, error) {
	// Open files up front so missing inputs fail before any bytes are sent.
	readers := make([]io.Reader, len(b.Files))
	var opened []*os.File
	for i, f := range b.Files {
		if f.Reader != nil {
			readers[i] = f.Reader
			continue
		}
		file, err := os.Open(f.Path)
		if err != nil {
			for _, o := range opened {
				_ = o.Close()
			}
			return nil, "", errors.WrapIO("open", f.Path, err)
		}
		opened = append(opened, file)
		readers[i] = file
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer func() {
			for _, o := range opened {
				_ = o.Close()
			}
		}()
		pw.CloseWithError(b.write(mw, readers))
	}()

	return pr, mw.FormDataContentType(), nil
}

func (b *MultipartBody) write(mw *multipart.Writer, readers []io.Reader) error {
	for _, field := range b.Fields {
		if err := mw.WriteField(field[0], field[1]); err != nil {
			return err
		}
	}
	for i, f := range b.Files {
		name := f.Name
		if name == "" {
			name = filepath.Base(f.Path)
		}
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, name))
		h.Set("Content-Type", ct)
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, readers[i]); err != nil {
			return err
		}
	}
	return mw.Close()
}

// Binary is a raw response body with its headers.
type Binary struct {
	Content []byte
	Header  http.Header
}

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(resp *http.Response, target any) error {
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}
	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

// ReadBinary reads a response body and keeps its headers.
func ReadBinary(resp *http.Response) (*Binary, error) {
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}
	return &Binary{Content: body, Header: resp.Header}, nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.Default().Debug().Err(err).Msg("failed to close response body")
	}
}
