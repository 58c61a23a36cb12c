package pccasset

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// NewHandler serves one route per extraction operation. Each response body
// is the operation's payload; a package that cannot be decoded yields an
// empty 500 response.
func NewHandler(e *Extractor) http.Handler {
	mux := http.NewServeMux()
	route := func(path string, op func(q url.Values) (string, error)) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			payload, err := op(r.URL.Query())
			if err != nil {
				e.Logger.Warn("request failed", "path", path, "query", r.URL.RawQuery, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			io.WriteString(w, payload)
			e.Logger.Debug("request", "path", path, "bytes", len(payload), "took", time.Since(start))
		})
	}
	route("/api/locations", func(q url.Values) (string, error) {
		return e.Locations(q.Get("pcc"))
	})
	route("/api/static", func(q url.Values) (string, error) {
		return e.StaticMeshNames(q.Get("pcc"))
	})
	route("/api/export", func(q url.Values) (string, error) {
		return e.ExportStaticMesh(ExportRequest{
			Package:      q.Get("pcc"),
			Mesh:         q.Get("name"),
			ExporterPath: q.Get("umodel"),
			Format:       q.Get("ext"),
			OutDir:       q.Get("out"),
			TexturesDir:  q.Get("tex"),
		})
	})
	route("/api/actors", func(q url.Values) (string, error) {
		return e.Actors(q.Get("pcc"))
	})
	route("/api/bones", func(q url.Values) (string, error) {
		return e.Bones(q.Get("pcc"), q.Get("res"))
	})
	route("/api/animations", func(q url.Values) (string, error) {
		return e.Animations(q.Get("pcc"))
	})
	return mux
}

// Serve runs the handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, e *Extractor) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(e),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          e.Logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}
	errc := make(chan error, 1)
	go func() {
		e.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
