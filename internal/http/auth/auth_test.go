package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/granja/internal/http/auth"
	"github.com/MrJamesThe3rd/granja/internal/inventory"
)

var secret = []byte("s3cret")

func TestMiddleware(t *testing.T) {
	manager, err := auth.Sign(secret, "ana", inventory.RoleManager, time.Hour)
	require.NoError(t, err)

	expired, err := auth.Sign(secret, "ana", inventory.RoleManager, -time.Minute)
	require.NoError(t, err)

	forged, err := auth.Sign([]byte("other"), "ana", inventory.RoleAdmin, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantRole   inventory.Role
	}{
		{name: "NoToken", wantStatus: http.StatusOK},
		{name: "Manager", header: "Bearer " + manager, wantStatus: http.StatusOK, wantRole: inventory.RoleManager},
		{name: "LowercaseScheme", header: "bearer " + manager, wantStatus: http.StatusOK, wantRole: inventory.RoleManager},
		{name: "Expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "WrongSecret", header: "Bearer " + forged, wantStatus: http.StatusUnauthorized},
		{name: "Basic", header: "Basic abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got inventory.Role

			h := auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = auth.RoleFrom(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRole, got)
		})
	}
}
