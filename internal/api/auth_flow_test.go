package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/terraincognita07/mealmate/internal/models"
)

func TestRegisterFirstAccountBecomesAdmin(t *testing.T) {
	app, _ := newTestApp(t)

	first := sendJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "first@example.com",
		"password": testPassword,
	}, "")
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", first.StatusCode)
	}
	if responseCookieValue(first.Cookies(), authCookieName) == "" {
		t.Fatal("expected auth cookie after registration")
	}
	firstPayload := struct {
		User models.User `json:"user"`
	}{}
	decodeJSONBody(t, first, &firstPayload)
	if firstPayload.User.Role != models.RoleAdmin {
		t.Fatalf("expected first account role admin, got %q", firstPayload.User.Role)
	}

	second := sendJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    "second@example.com",
		"password": testPassword,
	}, "")
	if second.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", second.StatusCode)
	}
	secondPayload := struct {
		User models.User `json:"user"`
	}{}
	decodeJSONBody(t, second, &secondPayload)
	if secondPayload.User.Role != models.RoleUser {
		t.Fatalf("expected second account role user, got %q", secondPayload.User.Role)
	}
}

func TestRegisterValidationListsFields(t *testing.T) {
	app, _ := newTestApp(t)

	response := sendJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"email":            "not-an-email",
		"password":         "weak",
		"confirm_password": "other",
	}, "")
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}

	payload := struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}{}
	decodeJSONBody(t, response, &payload)
	got := map[string]bool{}
	for _, field := range payload.Fields {
		got[field.Field] = true
	}
	for _, field := range []string{"email", "password", "confirm_password"} {
		if !got[field] {
			t.Fatalf("expected field %q in validation errors, got %#v", field, payload.Fields)
		}
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	app, database := newTestApp(t)
	createTestUser(t, database, "taken@example.com", models.RoleUser, false)

	response := sendJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"email":    " Taken@Example.com ",
		"password": testPassword,
	}, "")
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response.Body); message != "email already exists" {
		t.Fatalf("expected duplicate email error, got %q", message)
	}
}

func TestLoginInvalidCredentialsRedirectsWithFlash(t *testing.T) {
	app, database := newTestApp(t)
	createTestUser(t, database, "login@example.com", models.RoleUser, false)

	form := url.Values{
		"email":    {"login@example.com"},
		"password": {"WrongPass1"},
	}
	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
	flashValue := responseCookieValue(response.Cookies(), flashCookieName)
	if flashValue == "" {
		t.Fatal("expected flash cookie in login redirect")
	}

	followResponse, body := sendPage(t, app, "/login", flashCookieName+"="+flashValue, nil)
	if followResponse.StatusCode != http.StatusOK {
		t.Fatalf("expected login page status 200, got %d", followResponse.StatusCode)
	}
	if !strings.Contains(body, "Invalid email or password.") {
		t.Fatal("expected localized login error on login page")
	}
	if !strings.Contains(body, `value="login@example.com"`) {
		t.Fatal("expected login email to be kept in the form")
	}
}

func TestLoginLimiterBlocksRepeatedFailures(t *testing.T) {
	app, database := newTestApp(t)
	createTestUser(t, database, "limited@example.com", models.RoleUser, false)

	for attempt := 0; attempt < loginAttemptsLimit; attempt++ {
		response := sendJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "limited@example.com",
			"password": "WrongPass1",
		}, "")
		if response.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected status 401, got %d", attempt+1, response.StatusCode)
		}
	}

	blocked := sendJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "limited@example.com",
		"password": testPassword,
	}, "")
	if blocked.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 after repeated failures, got %d", blocked.StatusCode)
	}
	if message := readAPIError(t, blocked.Body); message != "too many login attempts" {
		t.Fatalf("expected limiter error, got %q", message)
	}
	if blocked.Header.Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on a locked login")
	}

	otherAccount := sendJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "someone-else@example.com",
		"password": "WrongPass1",
	}, "")
	if otherAccount.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected other accounts to stay unlocked, got %d", otherAccount.StatusCode)
	}
}

func TestMustChangePasswordRedirectsUntilChanged(t *testing.T) {
	app, database := newTestApp(t)
	createTestUser(t, database, "reset@example.com", models.RoleUser, true)

	form := url.Values{
		"email":    {"reset@example.com"},
		"password": {testPassword},
	}
	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()
	if location := response.Header.Get("Location"); location != "/change-password" {
		t.Fatalf("expected redirect to /change-password, got %q", location)
	}
	authCookie := authCookieName + "=" + responseCookieValue(response.Cookies(), authCookieName)

	dashboard, _ := sendPage(t, app, "/dashboard", authCookie, nil)
	if dashboard.StatusCode != http.StatusSeeOther || dashboard.Header.Get("Location") != "/change-password" {
		t.Fatalf("expected dashboard to redirect to /change-password, got %d %q", dashboard.StatusCode, dashboard.Header.Get("Location"))
	}

	changePage, body := sendPage(t, app, "/change-password", authCookie, nil)
	if changePage.StatusCode != http.StatusOK {
		t.Fatalf("expected change password page status 200, got %d", changePage.StatusCode)
	}
	if !strings.Contains(body, "Your password was reset.") {
		t.Fatal("expected forced change hint on change password page")
	}

	changed := sendJSON(t, app, http.MethodPost, "/api/auth/change-password", map[string]string{
		"current_password": testPassword,
		"new_password":     "EvenStronger2",
		"confirm_password": "EvenStronger2",
	}, authCookie)
	if changed.StatusCode != http.StatusOK {
		t.Fatalf("expected change password status 200, got %d", changed.StatusCode)
	}
	renewedCookie := authCookieName + "=" + responseCookieValue(changed.Cookies(), authCookieName)

	after, _ := sendPage(t, app, "/dashboard", renewedCookie, nil)
	if after.StatusCode != http.StatusOK {
		t.Fatalf("expected dashboard status 200 after password change, got %d", after.StatusCode)
	}
}

func TestChangePasswordRejectsWrongCurrentPassword(t *testing.T) {
	app, database := newTestApp(t)
	createTestUser(t, database, "wrong-current@example.com", models.RoleUser, false)
	authCookie := loginAndExtractAuthCookie(t, app, "wrong-current@example.com", testPassword)

	response := sendJSON(t, app, http.MethodPost, "/api/auth/change-password", map[string]string{
		"current_password": "NotMyPass1",
		"new_password":     "EvenStronger2",
	}, authCookie)
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}
	if message := readAPIError(t, response.Body); message != "invalid current password" {
		t.Fatalf("expected current password error, got %q", message)
	}
}

func TestLogoutClearsAuthCookie(t *testing.T) {
	app, database := newTestApp(t)
	createTestUser(t, database, "logout@example.com", models.RoleUser, false)
	authCookie := loginAndExtractAuthCookie(t, app, "logout@example.com", testPassword)

	response := sendJSON(t, app, http.MethodPost, "/api/auth/logout", nil, authCookie)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected logout status 200, got %d", response.StatusCode)
	}
	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil || cookie.Value != "" {
		t.Fatal("expected auth cookie to be cleared")
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app, _ := newTestApp(t)

	apiResponse := sendJSON(t, app, http.MethodGet, "/api/meals", nil, "")
	if apiResponse.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected api status 401, got %d", apiResponse.StatusCode)
	}

	pageResponse, _ := sendPage(t, app, "/meals", "", nil)
	if pageResponse.StatusCode != http.StatusSeeOther || pageResponse.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", pageResponse.StatusCode, pageResponse.Header.Get("Location"))
	}
}

func TestTamperedAuthCookieIsRejected(t *testing.T) {
	app, database := newTestApp(t)
	createTestUser(t, database, "tamper@example.com", models.RoleUser, false)
	authCookie := loginAndExtractAuthCookie(t, app, "tamper@example.com", testPassword)

	tampered := authCookie[:len(authCookie)-2] + "xx"
	response := sendJSON(t, app, http.MethodGet, "/api/meals", nil, tampered)
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected tampered cookie to be rejected with 401, got %d", response.StatusCode)
	}
}

func TestAuthCookieSecureFlagFollowsConfig(t *testing.T) {
	app, database := newTestAppWithCookieSecure(t, true)
	createTestUser(t, database, "secure@example.com", models.RoleUser, false)

	form := url.Values{
		"email":    {"secure@example.com"},
		"password": {testPassword},
	}
	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()

	cookie := responseCookie(response.Cookies(), authCookieName)
	if cookie == nil {
		t.Fatal("expected auth cookie")
	}
	if !cookie.Secure || !cookie.HttpOnly {
		t.Fatalf("expected secure httpOnly auth cookie, got secure=%v httpOnly=%v", cookie.Secure, cookie.HttpOnly)
	}
}
