package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		r := chi.NewRouter()

		Convey("When registering the site handler", func() {
			Register(ctx, r)

			Convey("Then it should serve the intake page at /", func() {
				req := httptest.NewRequest("GET", "/", http.NoBody)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Body.String(), ShouldContainSubstring, `id="intake"`)
				So(w.Body.String(), ShouldContainSubstring, "/api/predict")
			})

			Convey("And it should not serve other paths", func() {
				req := httptest.NewRequest("GET", "/index.htm", http.NoBody)
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When registering on a nil router", func() {
			Convey("Then it should panic", func() {
				So(func() { Register(ctx, nil) }, ShouldPanic)
			})
		})
	})

	Convey("Given the embedded file system", t, func() {
		Convey("Then index.html should be present", func() {
			f, err := FS().Open("index.html")
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)
		})
	})
}
