// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/foundation-go/internal/auth"
	"github.com/olegiv/foundation-go/internal/gateway/sqlgw"
	"github.com/olegiv/foundation-go/internal/model"
	"github.com/olegiv/foundation-go/internal/render"
	"github.com/olegiv/foundation-go/internal/service"
	"github.com/olegiv/foundation-go/internal/session"
	"github.com/olegiv/foundation-go/internal/store"
)

func newTestGateway(t *testing.T) *sqlgw.Gateway {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db, store.DialectSQLite))

	return sqlgw.New(db, store.DialectSQLite)
}

const testContent = `{{define "content"}}{{end}}`

func testTemplates() fstest.MapFS {
	fs := fstest.MapFS{
		"layouts/base.html":  {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{if .Flash}}<p class="flash-{{.FlashType}}">{{.Flash}}</p>{{end}}{{template "content" .}}{{end}}`)},
		"partials/chat.html": {Data: []byte(`{{define "chat"}}{{end}}`)},
		"pages/news.html": {Data: []byte(`{{define "content"}}<p>category={{.Data.Category}}</p>` +
			`{{range .Data.Articles}}<article>{{.Title}}</article>{{else}}<p>No news</p>{{end}}{{end}}`)},
		"pages/transparency.html": {Data: []byte(`{{define "content"}}{{range .Data.Reports}}<section>{{.Period}}</section>{{else}}<p>No reports</p>{{end}}{{end}}`)},
		"pages/contact.html":      {Data: []byte(`{{define "content"}}{{range .Data.Subjects}}<option value="{{.Value}}">{{.Label}}</option>{{end}}{{end}}`)},
		"pages/home.html":         {Data: []byte(`{{define "content"}}<h1>home</h1>{{range .Data.Stats}}<b>{{.Value}}</b>{{end}}{{end}}`)},
	}
	for _, name := range []string{"about", "founder", "how-it-works", "grants", "admin"} {
		fs["pages/"+name+".html"] = &fstest.MapFile{Data: []byte(testContent)}
	}
	return fs
}

type publicEnv struct {
	gw       *sqlgw.Gateway
	sm       *scs.SessionManager
	router   http.Handler
	articles *service.ArticleService
	reports  *service.ReportService
}

func newPublicEnv(t *testing.T) *publicEnv {
	t.Helper()

	gw := newTestGateway(t)
	sm := scs.New()
	renderer, err := render.New(render.Config{TemplatesFS: testTemplates(), SessionManager: sm, SupportEmail: "info@example.org"})
	require.NoError(t, err)

	articles := service.NewArticleService(gw)
	reports := service.NewReportService(gw)
	h := NewPublicHandler(renderer, articles, reports, service.NewContactService(gw))

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Get("/", h.Page)
	r.Get("/{page}", h.Page)
	r.Post("/contact", h.SubmitContact)

	return &publicEnv{gw: gw, sm: sm, router: r, articles: articles, reports: reports}
}

// fakeAuth answers admin-auth validate calls with user.
type fakeAuth struct {
	user *model.Operator
}

func (f fakeAuth) Invoke(_ context.Context, _ string, _ any, out any) error {
	resp := out.(*model.AuthResponse)
	if f.user != nil {
		resp.Valid = true
		resp.User = f.user
	}
	return nil
}

// withOperator returns ctx carrying an authentication context signed in as user.
func withOperator(t *testing.T, ctx context.Context, user *model.Operator) context.Context {
	t.Helper()
	st := session.NewMemoryStore()
	require.NoError(t, st.Save(ctx, model.Session{Token: "tok", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	ac := auth.NewManager(fakeAuth{user: user}).Bootstrap(ctx, st)
	require.True(t, ac.IsAuthenticated())
	return auth.WithContext(ctx, ac)
}

func mustRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(render.Config{TemplatesFS: testTemplates()})
	require.NoError(t, err)
	return r
}

// withPageParam sets the chi {page} parameter on a request served
// without a router.
func withPageParam(r *http.Request, page string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("page", page)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
