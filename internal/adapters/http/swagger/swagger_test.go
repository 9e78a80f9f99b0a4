package swagger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func get(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	convey.Convey("Given the docs routes", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		convey.Convey("Then /openapi.yaml serves the embedded document", func() {
			w := get(mux, http.MethodGet, "/openapi.yaml")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/yaml; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "openapi: 3.0.3")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "/league/trends")
		})

		convey.Convey("Then /openapi.json carries the same paths", func() {
			w := get(mux, http.MethodGet, "/openapi.json")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			var doc struct {
				OpenAPI string                    `json:"openapi"`
				Paths   map[string]map[string]any `json:"paths"`
			}
			convey.So(json.Unmarshal(w.Body.Bytes(), &doc), convey.ShouldBeNil)
			convey.So(doc.OpenAPI, convey.ShouldEqual, "3.0.3")
			for _, p := range []string{"/riders", "/risk", "/league/standings", "/reload", "/healthz"} {
				convey.So(doc.Paths, convey.ShouldContainKey, p)
			}
			convey.So(doc.Paths["/reload"], convey.ShouldContainKey, "post")
		})

		convey.Convey("Then /api-docs renders ReDoc over the JSON document", func() {
			w := get(mux, http.MethodGet, "/api-docs")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "text/html; charset=utf-8")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "Peloton API Docs")
			convey.So(w.Body.String(), convey.ShouldContainSubstring, redocScript)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "/openapi.json")
		})

		convey.Convey("Then HEAD has headers and no body", func() {
			w := get(mux, http.MethodHead, "/openapi.yaml")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.Len(), convey.ShouldEqual, 0)
		})

		convey.Convey("Then writes are refused", func() {
			w := get(mux, http.MethodPost, "/openapi.json")
			convey.So(w.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
			convey.So(w.Header().Get("Allow"), convey.ShouldEqual, "GET, HEAD")
		})
	})

	convey.Convey("Given a nil mux", t, func() {
		convey.So(func() { Register(context.Background(), nil) }, convey.ShouldPanic)
	})
}

func TestDocumentJSON(t *testing.T) {
	convey.Convey("Given documents that are not OpenAPI", t, func() {
		_, err := documentJSON([]byte("info: {title: x}\n"))
		convey.So(err, convey.ShouldNotBeNil)

		_, err = documentJSON([]byte("openapi: [unclosed\n"))
		convey.So(err, convey.ShouldNotBeNil)
	})
}
