package router

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestDetectMethods(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Method
	}{
		{
			name: "bare verbs",
			src:  goFile("routes", "GET", "POST"),
			want: []Method{MethodGet, MethodPost},
		},
		{
			name: "canonical order regardless of source order",
			src:  goFile("routes", "PATCH", "DELETE", "PUT", "POST", "GET"),
			want: []Method{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch},
		},
		{
			name: "prefixed verbs",
			src:  goFile("users", "UsersGET", "ParamIDDELETE", "Item2PUT"),
			want: []Method{MethodGet, MethodPut, MethodDelete},
		},
		{
			name: "uppercase prefix is not a verb",
			src:  goFile("routes", "TARGET", "INPUT", "IDGET"),
			want: []Method{},
		},
		{
			name: "verb must be a suffix",
			src:  goFile("routes", "GETUsers", "Get", "get"),
			want: []Method{},
		},
		{
			name: "methods and generics are ignored",
			src: `package routes

type S struct{}

func (s *S) GET() {}

func POST[T any]() {}
`,
			want: []Method{},
		},
		{
			name: "variables are not handlers",
			src: `package routes

var GET = func() {}
`,
			want: []Method{},
		},
		{
			name: "unparseable source has no verbs",
			src:  "package routes\n\nfunc GET( {",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectMethods([]byte(tt.src))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectMethods() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInspectHandlers(t *testing.T) {
	exports, err := NewMethodDetector().InspectSource("users.go", []byte(goFile("users", "UsersGET", "POST", "Layout", "helper")))
	if err != nil {
		t.Fatal(err)
	}

	if exports.Package != "users" {
		t.Errorf("Package = %q", exports.Package)
	}
	if exports.Handlers[MethodGet] != "UsersGET" || exports.Handlers[MethodPost] != "POST" {
		t.Errorf("Handlers = %v", exports.Handlers)
	}
	if !exports.HasLayout {
		t.Error("Layout function not detected")
	}
	if want := []string{"UsersGET", "POST", "Layout"}; !reflect.DeepEqual(exports.Funcs, want) {
		t.Errorf("Funcs = %v, want %v", exports.Funcs, want)
	}
	if len(exports.Ambiguous) != 0 {
		t.Errorf("unexpected ambiguity: %v", exports.Ambiguous)
	}
}

func TestInspectAmbiguous(t *testing.T) {
	exports, err := NewMethodDetector().InspectSource("health.go", []byte(goFile("api", "HealthGET", "GET")))
	if err != nil {
		t.Fatal(err)
	}

	if got := exports.Ambiguous[MethodGet]; !reflect.DeepEqual(got, []string{"HealthGET", "GET"}) {
		t.Errorf("Ambiguous[get] = %v", got)
	}
	if exports.Handlers[MethodGet] != "GET" {
		t.Errorf("bare verb should win, got %q", exports.Handlers[MethodGet])
	}
	if !exports.Methods.Has(MethodGet) {
		t.Error("GET should still be detected")
	}
}

func TestInspectFile(t *testing.T) {
	root := writeTree(t, map[string]string{"about.go": goFile("routes", "GET")})

	exports, err := NewMethodDetector().Inspect(filepath.Join(root, "about.go"))
	if err != nil {
		t.Fatal(err)
	}
	if got := exports.Verbs(); !reflect.DeepEqual(got, []Method{MethodGet}) {
		t.Errorf("Verbs() = %v", got)
	}

	if _, err := NewMethodDetector().Inspect(filepath.Join(root, "missing.go")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMethodNames(t *testing.T) {
	tests := []struct {
		m     Method
		lower string
		upper string
		cnst  string
	}{
		{MethodGet, "get", "GET", "http.MethodGet"},
		{MethodPost, "post", "POST", "http.MethodPost"},
		{MethodPut, "put", "PUT", "http.MethodPut"},
		{MethodDelete, "delete", "DELETE", "http.MethodDelete"},
		{MethodPatch, "patch", "PATCH", "http.MethodPatch"},
	}

	for _, tt := range tests {
		if tt.m.String() != tt.lower || tt.m.HTTP() != tt.upper || tt.m.Const() != tt.cnst {
			t.Errorf("%d: got %s %s %s", tt.m, tt.m.String(), tt.m.HTTP(), tt.m.Const())
		}
		parsed, ok := ParseMethod(tt.upper)
		if !ok || parsed != tt.m {
			t.Errorf("ParseMethod(%q) = %v, %v", tt.upper, parsed, ok)
		}
	}

	if _, ok := ParseMethod("options"); ok {
		t.Error("options is not in the vocabulary")
	}
}

func TestMethodSet(t *testing.T) {
	s := NewMethodSet(MethodPatch, MethodGet, MethodGet)

	if s.Len() != 2 {
		t.Errorf("Len() = %d", s.Len())
	}
	if !s.Has(MethodGet) || s.Has(MethodPost) {
		t.Error("membership wrong")
	}
	if s.String() != "get,patch" {
		t.Errorf("String() = %q", s.String())
	}
	if !NewMethodSet().IsEmpty() {
		t.Error("empty set should be empty")
	}
}

func TestPrefixedHandler(t *testing.T) {
	tests := []struct {
		stem string
		m    Method
		want string
		ok   bool
	}{
		{"id_", MethodGet, "ParamIDGET", true},
		{"about_us", MethodPost, "AboutUsPOST", true},
		{"index", MethodDelete, "IndexDELETE", true},
		{"v2", MethodGet, "V2GET", true},
		{"x", MethodGet, "", false},
	}

	for _, tt := range tests {
		got, ok := PrefixedHandler(tt.stem, tt.m)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PrefixedHandler(%q, %s) = %q, %v; want %q, %v", tt.stem, tt.m, got, ok, tt.want, tt.ok)
		}
		if ok {
			if m, found := handlerMethod(got); !found || m != tt.m {
				t.Errorf("%s is not detected as %s", got, tt.m)
			}
		}
	}
}
