package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okValidator(t *testing.T, wantToken string) TokenValidator {
	return TokenValidatorFunc(func(tokenString string) (string, error) {
		if tokenString != wantToken {
			return "", errors.New("unknown token")
		}
		return "client-1", nil
	})
}

func protected(t *testing.T, validator TokenValidator) (http.Handler, *string) {
	var gotSubject string
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := Subject(r)
		require.NoError(t, err)
		gotSubject = subject
		w.WriteHeader(http.StatusOK)
	}))
	return handler, &gotSubject
}

func TestAuthValidToken(t *testing.T) {
	handler, gotSubject := protected(t, okValidator(t, "good-token"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client-1", *gotSubject)
}

func TestAuthCaseInsensitiveBearer(t *testing.T) {
	handler, _ := protected(t, okValidator(t, "good-token"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler, _ := protected(t, okValidator(t, "good-token"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	handler, _ := protected(t, okValidator(t, "good-token"))

	for _, header := range []string{"good-token", "Basic abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler, _ := protected(t, okValidator(t, "good-token"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubjectMissingFromContext(t *testing.T) {
	_, err := Subject(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}
