package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

const (
	contentTypeJSON = "application/json"
)

// Request — неизменяемое описание одного исходящего запроса.
// Методы With* возвращают копию; сам Request между попытками не модифицируется.
type Request struct {
	Method string
	// Path относительно базового URL API (например "posts/1/") либо абсолютный URL.
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
	// Public-запросы уходят без Authorization и не запускают обновление токена.
	Public bool
}

// FormFile is a file part of a multipart request.
type FormFile struct {
	Field    string
	FileName string
	Content  []byte
}

// NewRequest builds a body-less request.
func NewRequest(method, path string) Request {
	return Request{Method: method, Path: path}
}

// JSONRequest marshals payload as the request body.
func JSONRequest(method, path string, payload any) (Request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}
	return Request{Method: method, Path: path, Body: b, ContentType: contentTypeJSON}, nil
}

// MultipartRequest builds a multipart/form-data body from plain fields and files.
func MultipartRequest(method, path string, fields map[string]string, files []FormFile) (Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return Request{}, err
		}
	}
	for _, f := range files {
		if f.Field == "" || f.FileName == "" {
			return Request{}, errors.New("multipart file requires field and file name")
		}
		fw, err := mw.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return Request{}, err
		}
		if _, err := fw.Write(f.Content); err != nil {
			return Request{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return Request{}, err
	}
	return Request{Method: method, Path: path, Body: buf.Bytes(), ContentType: mw.FormDataContentType()}, nil
}

// WithQuery returns a copy of r with the query parameter set.
func (r Request) WithQuery(key, value string) Request {
	q := url.Values{}
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(key, value)
	r.Query = q
	return r
}

// AsPublic returns a copy of r marked as public.
func (r Request) AsPublic() Request {
	r.Public = true
	return r
}

// httpRequest собирает *http.Request для одной попытки. accessToken может быть пустым.
func (r Request) httpRequest(ctx context.Context, base *url.URL, accessToken string) (*http.Request, error) {
	target, err := resolve(base, r.Path)
	if err != nil {
		return nil, err
	}
	if len(r.Query) > 0 {
		q := target.Query()
		for k, v := range r.Query {
			q[k] = v
		}
		target.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target.String(), bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if accessToken != "" && !r.Public {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	return req, nil
}
