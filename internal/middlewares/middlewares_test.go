package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func probe(t *testing.T, mw MiddlewaresI, header http.Header) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var captured *gin.Context
	router.GET("/probe", mw.Session(), mw.OptionalUser(), func(ctx *gin.Context) {
		captured = ctx.Copy()
		ctx.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if captured == nil {
		t.Fatal("handler not reached")
	}
	return w, captured
}

func TestSessionIssuesCookie(t *testing.T) {
	mw := NewMiddlewares("secret", "localhost", "8080")
	w, ctx := probe(t, mw, nil)

	sessionInterface, exists := ctx.Get("session_id")
	if !exists {
		t.Fatal("no session_id in context")
	}
	sessionId := sessionInterface.(uuid.UUID)
	if sessionId == uuid.Nil {
		t.Error("nil session id")
	}

	var issued string
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			issued = c.Value
		}
	}
	if issued != sessionId.String() {
		t.Errorf("cookie = %q, context = %q", issued, sessionId)
	}
}

func TestSessionReusesCookie(t *testing.T) {
	mw := NewMiddlewares("secret", "localhost", "8080")
	existing := uuid.New()
	header := http.Header{}
	header.Set("Cookie", SessionCookie+"="+existing.String())
	w, ctx := probe(t, mw, header)

	sessionInterface, _ := ctx.Get("session_id")
	if sessionInterface.(uuid.UUID) != existing {
		t.Errorf("session_id = %v, want %v", sessionInterface, existing)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			t.Error("cookie re-issued for a valid session")
		}
	}
}

func TestSessionReplacesGarbageCookie(t *testing.T) {
	mw := NewMiddlewares("secret", "localhost", "8080")
	header := http.Header{}
	header.Set("Cookie", SessionCookie+"=not-a-uuid")
	w, ctx := probe(t, mw, header)

	sessionInterface, exists := ctx.Get("session_id")
	if !exists || sessionInterface.(uuid.UUID) == uuid.Nil {
		t.Fatal("no fresh session id")
	}
	replaced := false
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			replaced = true
		}
	}
	if !replaced {
		t.Error("garbage cookie not replaced")
	}
}

func TestOptionalUserValidToken(t *testing.T) {
	secret := "secret"
	mw := NewMiddlewares(secret, "localhost", "8080")
	userId := uuid.New()
	claims := Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	_, ctx := probe(t, mw, header)

	userInterface, exists := ctx.Get("user_id")
	if !exists {
		t.Fatal("no user_id in context")
	}
	if userInterface.(uuid.UUID) != userId {
		t.Errorf("user_id = %v, want %v", userInterface, userId)
	}
}

func TestOptionalUserBadToken(t *testing.T) {
	mw := NewMiddlewares("secret", "localhost", "8080")
	header := http.Header{}
	header.Set("Authorization", "Bearer garbage")
	w, ctx := probe(t, mw, header)

	if w.Code != http.StatusOK {
		t.Errorf("code = %d, bad token must not block", w.Code)
	}
	if _, exists := ctx.Get("user_id"); exists {
		t.Error("user_id set from garbage token")
	}
}

func TestOptionalUserAnonymous(t *testing.T) {
	mw := NewMiddlewares("secret", "localhost", "8080")
	w, ctx := probe(t, mw, nil)

	if w.Code != http.StatusOK {
		t.Errorf("code = %d", w.Code)
	}
	if _, exists := ctx.Get("user_id"); exists {
		t.Error("user_id set for anonymous request")
	}
}
