package auth_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var ce *auth.CallableError
	require.True(t, errors.As(err, &ce), "se esperaba CallableError, got %v", err)
	return ce.Code
}

var admin = &auth.Caller{UserID: "u-1", Role: entity.RoleAdmin}

func TestVerify_ContraseñaCorrecta(t *testing.T) {
	uc := auth.NewAdminPasswordUseCase(digest("s3cr3t"), zerolog.Nop())

	ok, err := uc.Verify(context.Background(), admin, "s3cr3t")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.Verify(context.Background(), admin, "otra")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_DigestEnMayusculas(t *testing.T) {
	uc := auth.NewAdminPasswordUseCase(" "+strings.ToUpper(digest("x"))+" ", zerolog.Nop())
	ok, err := uc.Verify(context.Background(), admin, "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_PermisoExplicito(t *testing.T) {
	uc := auth.NewAdminPasswordUseCase(digest("x"), zerolog.Nop())
	caller := &auth.Caller{UserID: "u-2", Role: entity.RoleOperator, Permissions: []string{entity.PermissionManageSettings}}

	ok, err := uc.Verify(context.Background(), caller, "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_Rechazos(t *testing.T) {
	cases := []struct {
		name     string
		ref      string
		caller   *auth.Caller
		password string
		code     string
	}{
		{"sin autenticación", digest("x"), nil, "x", auth.CodeUnauthenticated},
		{"contraseña vacía", digest("x"), admin, "", auth.CodeInvalidArgument},
		{"sin permisos", digest("x"), &auth.Caller{UserID: "u-3", Role: entity.RoleOperator}, "x", auth.CodePermissionDenied},
		{"digest ausente", "", admin, "x", auth.CodeFailedPrecondition},
		{"digest corto", "abc123", admin, "x", auth.CodeFailedPrecondition},
		{"digest no hex", "zz" + digest("x")[2:], admin, "x", auth.CodeFailedPrecondition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := auth.NewAdminPasswordUseCase(tc.ref, zerolog.Nop())
			ok, err := uc.Verify(context.Background(), tc.caller, tc.password)
			assert.False(t, ok)
			assert.Equal(t, tc.code, errorCode(t, err))
		})
	}
}
