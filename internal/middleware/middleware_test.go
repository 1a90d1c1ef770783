package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmondo-adventures/tours_be/internal/models"
	"github.com/mmondo-adventures/tours_be/internal/utils"
)

const testSecret = "test-secret"

func guardedApp(allowed ...models.Role) *fiber.App {
	app := fiber.New()
	group := app.Group("/", JWTFromCookie(testSecret), AttachJWTLocals())
	group.Get("/guarded", RequireRoles(allowed...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "role": c.Locals("role")})
	})
	return app
}

func getGuarded(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "ma_token", Value: token})
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func signFor(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.SignJWT(testSecret, "user-1", role, 60)
	require.NoError(t, err)
	return token
}

func TestRequireRoles(t *testing.T) {
	app := guardedApp(models.RoleAdmin, models.RoleSuperadmin)

	assert.Equal(t, http.StatusUnauthorized, getGuarded(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, getGuarded(t, app, "not-a-jwt"))
	assert.Equal(t, http.StatusForbidden, getGuarded(t, app, signFor(t, "customer")))
	assert.Equal(t, http.StatusOK, getGuarded(t, app, signFor(t, "admin")))
	assert.Equal(t, http.StatusOK, getGuarded(t, app, signFor(t, "superadmin")))

	// role claims are normalized before the gate
	assert.Equal(t, http.StatusOK, getGuarded(t, app, signFor(t, " Admin ")))
	// unknown roles never reach a handler
	assert.Equal(t, http.StatusUnauthorized, getGuarded(t, app, signFor(t, "owner")))
}

func TestRequireRolesWrongSecret(t *testing.T) {
	app := guardedApp(models.RoleSuperadmin)

	forged, err := utils.SignJWT("other-secret", "user-1", "superadmin", 60)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, getGuarded(t, app, forged))
}

func TestParseRole(t *testing.T) {
	role, ok := models.ParseRole("SUPERADMIN")
	require.True(t, ok)
	assert.Equal(t, models.RoleSuperadmin, role)

	_, ok = models.ParseRole("root")
	assert.False(t, ok)
	_, ok = models.ParseRole("")
	assert.False(t, ok)
}
