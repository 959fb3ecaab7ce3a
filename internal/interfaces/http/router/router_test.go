package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) }

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouter_MountsGroupsUnderAPIPrefix(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).
		Register(NewDomainGroup("sales", "/sales").GET("", ok).GET("/:id", ok)).
		Setup()

	w := serve(engine, http.MethodGet, "/api/v1/sales/42")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/sales/:id", w.Body.String())

	w = serve(engine, http.MethodGet, "/sales")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("clients", "/clients").
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id/credit", ok).
		DELETE("/:id", ok)
	NewRouter(engine).Register(g).Setup()

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/api/v1/clients"},
		{http.MethodPut, "/api/v1/clients/1"},
		{http.MethodPatch, "/api/v1/clients/1/credit"},
		{http.MethodDelete, "/api/v1/clients/1"},
	} {
		w := serve(engine, tc.method, tc.target)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.target)
	}
}

func TestDomainGroup_MiddlewareIsScoped(t *testing.T) {
	engine := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }

	admin := NewDomainGroup("admin", "/admin").Use(deny)
	admin.Group("companies", "/companies").GET("", ok)
	public := NewDomainGroup("auth", "/auth").POST("/login", ok)
	NewRouter(engine).Register(admin, public).Setup()

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/admin/companies").Code,
		"subgroups inherit the parent middleware")
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
}

func TestRouter_Endpoints(t *testing.T) {
	company := NewDomainGroup("company", "/company").GET("", ok)
	company.Group("users", "/users").GET("", ok).DELETE("/:id", ok)
	r := NewRouter(gin.New()).Register(company, NewDomainGroup("stock", "/stock").POST("/adjust", ok))

	endpoints := r.Endpoints()
	require.Len(t, endpoints, 4)

	var listed []string
	for _, e := range endpoints {
		listed = append(listed, e.String())
	}
	assert.Equal(t, []string{
		"GET /company",
		"GET /company/users",
		"DELETE /company/users/:id",
		"POST /stock/adjust",
	}, listed)
	assert.Equal(t, "users", endpoints[1].Area)
	assert.Equal(t, "stock", endpoints[3].Area)
}

func TestAPIGroups_EndpointsMatchEngineRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Register(APIGroups(emptyHandlers(), RouteOptions{})...)
	r.Setup()

	mounted := make(map[string]bool)
	for _, route := range engine.Routes() {
		mounted[route.Method+" "+route.Path] = true
	}
	for _, e := range r.Endpoints() {
		assert.True(t, mounted[e.Method+" "+APIPrefix+e.Path], "declared but not mounted: %s", e)
	}
	assert.Len(t, r.Endpoints(), len(engine.Routes()))
}
