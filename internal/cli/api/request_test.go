package api

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"
)

func TestResolve(t *testing.T) {
	base, _ := url.Parse("http://localhost:8000/api/")
	cases := map[string]string{
		"posts/":                              "http://localhost:8000/api/posts/",
		"/posts/1/":                           "http://localhost:8000/api/posts/1/",
		"users/token/refresh/":                "http://localhost:8000/api/users/token/refresh/",
		"http://other:9000/api/posts/?page=2": "http://other:9000/api/posts/?page=2",
	}
	for in, want := range cases {
		got, err := resolve(base, in)
		if err != nil {
			t.Fatalf("resolve(%q): %v", in, err)
		}
		if got.String() != want {
			t.Fatalf("resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWithQuery_DoesNotMutateOriginal(t *testing.T) {
	orig := NewRequest(http.MethodGet, "posts/").WithQuery("page", "1")
	next := orig.WithQuery("page", "2")
	if orig.Query.Get("page") != "1" || next.Query.Get("page") != "2" {
		t.Fatalf("query copies share state: %v %v", orig.Query, next.Query)
	}

	base, _ := url.Parse("http://h/api/")
	hr, err := next.httpRequest(context.Background(), base, "")
	if err != nil {
		t.Fatal(err)
	}
	if hr.URL.String() != "http://h/api/posts/?page=2" {
		t.Fatalf("unexpected url %s", hr.URL)
	}
	if hr.Header.Get("Authorization") != "" {
		t.Fatalf("empty token must not produce a header")
	}
}

func TestMultipartRequest(t *testing.T) {
	req, err := MultipartRequest(http.MethodPost, "posts/",
		map[string]string{"content": "hello"},
		[]FormFile{{Field: "image", FileName: "cat.png", Content: []byte("PNG")}})
	if err != nil {
		t.Fatal(err)
	}
	base, _ := url.Parse("http://h/api/")
	hr, err := req.httpRequest(context.Background(), base, "tok")
	if err != nil {
		t.Fatal(err)
	}
	if hr.Header.Get("Authorization") != "Bearer tok" {
		t.Fatalf("missing bearer header")
	}
	mt, params, err := mime.ParseMediaType(hr.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/form-data" {
		t.Fatalf("unexpected content type %q", hr.Header.Get("Content-Type"))
	}
	mr := multipart.NewReader(hr.Body, params["boundary"])
	parts := map[string]string{}
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(p)
		parts[p.FormName()] = string(b)
	}
	if parts["content"] != "hello" || parts["image"] != "PNG" {
		t.Fatalf("unexpected parts %v", parts)
	}

	if _, err := MultipartRequest(http.MethodPost, "posts/", nil, []FormFile{{Field: "image"}}); err == nil {
		t.Fatal("file without name must be rejected")
	}
}

func TestPublicRequestNeverCarriesToken(t *testing.T) {
	req, err := JSONRequest(http.MethodPost, "users/login/", map[string]string{"username": "a"})
	if err != nil {
		t.Fatal(err)
	}
	base, _ := url.Parse("http://h/api/")
	hr, _ := req.AsPublic().httpRequest(context.Background(), base, "tok")
	if hr.Header.Get("Authorization") != "" {
		t.Fatal("public request must not carry a token")
	}
	if hr.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", hr.Header.Get("Content-Type"))
	}
}
