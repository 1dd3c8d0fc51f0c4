package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Almacen-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "almacen-pro-test"
)

// protectedApp arma una app Fiber con una sola ruta detrás de auth + RBAC.
func protectedApp(allowed ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowed...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role": apphttp.GetRole(c)})
		},
	)
	return app
}

func signToken(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := pkgjwt.Sign(testJWTSecret, testIssuer, ttl, testUserID, testCompanyID, role)
	require.NoError(t, err)
	return tok
}

func getProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_RolPermitido(t *testing.T) {
	app := protectedApp(apphttp.RoleAdmin, apphttp.RoleBodeguero)

	for _, role := range []string{"admin", "bodeguero"} {
		resp := getProtected(t, app, "Bearer "+signToken(t, role, time.Hour))
		assert.Equal(t, http.StatusOK, resp.StatusCode, role)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, role, body["role"])
	}
}

func TestRequireRole_RolNoPermitido(t *testing.T) {
	app := protectedApp(apphttp.RoleAdmin)
	resp := getProtected(t, app, "Bearer "+signToken(t, "tecnico", time.Hour))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	app := protectedApp(apphttp.RoleAdmin)
	resp := getProtected(t, app, "Bearer "+signToken(t, "", time.Hour))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := protectedApp(apphttp.RoleAdmin)
	resp := getProtected(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenMalformado(t *testing.T) {
	app := protectedApp(apphttp.RoleAdmin)
	resp := getProtected(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_CargaLocalsDesdeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "tecnico", time.Hour))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "tecnico", body["role"])
}

func TestJWT_SignYParse(t *testing.T) {
	tok, err := pkgjwt.Sign(testJWTSecret, testIssuer, time.Hour, testUserID, testCompanyID, "bodeguero")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testCompanyID, claims.CompanyID)
	assert.Equal(t, "bodeguero", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_Expirado(t *testing.T) {
	tok, err := pkgjwt.Sign(testJWTSecret, testIssuer, -time.Minute, testUserID, testCompanyID, "admin")
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err)
}

func TestJWT_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Sign(testJWTSecret, testIssuer, time.Hour, testUserID, testCompanyID, "admin")
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}
