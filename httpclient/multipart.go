package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
)

// MultipartBody is a multipart/form-data body.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is one file part. Reader takes precedence over Data.
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
	Reader      io.Reader
}

func (f FileField) header() textproto.MIMEHeader {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     f.FieldName,
		"filename": f.FileName,
	}))
	h.Set("Content-Type", ct)
	return h
}

func (f FileField) content() io.Reader {
	if f.Reader != nil {
		return f.Reader
	}
	return bytes.NewReader(f.Data)
}

// encode renders the body and returns it with its Content-Type.
func (m *MultipartBody) encode() (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	for name, value := range m.Fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.Files {
		part, err := mw.CreatePart(f.header())
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.content()); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}
