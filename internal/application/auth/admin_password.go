package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// Códigos de error de la función invocable; el transporte los traduce a estados HTTP.
const (
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidArgument    = "invalid-argument"
	CodeFailedPrecondition = "failed-precondition"
	CodePermissionDenied   = "permission-denied"
	CodeInternal           = "internal"
)

// CallableError error tipado que distingue fallas del llamador de fallas de configuración.
type CallableError struct {
	Code    string
	Message string
}

func (e *CallableError) Error() string { return e.Code + ": " + e.Message }

// Caller identidad autenticada que invoca la función.
type Caller struct {
	UserID      string
	Email       string
	Role        string
	Permissions []string
}

// CanManageSettings: rol admin o permiso explícito MANAGE_SETTINGS.
func (c *Caller) CanManageSettings() bool {
	if c.Role == entity.RoleAdmin {
		return true
	}
	for _, p := range c.Permissions {
		if p == entity.PermissionManageSettings {
			return true
		}
	}
	return false
}

// AdminPasswordUseCase verifica la contraseña de administración contra un digest
// SHA-256 configurado (hex, 64 caracteres).
type AdminPasswordUseCase struct {
	referenceHex string
	log          zerolog.Logger
}

// NewAdminPasswordUseCase construye el caso de uso con el digest de referencia.
func NewAdminPasswordUseCase(referenceSHA256 string, log zerolog.Logger) *AdminPasswordUseCase {
	return &AdminPasswordUseCase{
		referenceHex: strings.ToLower(strings.TrimSpace(referenceSHA256)),
		log:          log.With().Str("component", "admin_password").Logger(),
	}
}

// Verify devuelve si la contraseña coincide. Los rechazos se devuelven como *CallableError.
func (uc *AdminPasswordUseCase) Verify(ctx context.Context, caller *Caller, password string) (bool, error) {
	if caller == nil || caller.UserID == "" {
		return false, &CallableError{Code: CodeUnauthenticated, Message: "se requiere autenticación"}
	}
	if password == "" {
		return false, &CallableError{Code: CodeInvalidArgument, Message: "la contraseña es obligatoria"}
	}
	if !caller.CanManageSettings() {
		uc.log.Warn().Str("user_id", caller.UserID).Msg("verificación de contraseña sin permisos")
		return false, &CallableError{Code: CodePermissionDenied, Message: "sin permiso para administrar la configuración"}
	}
	reference, err := uc.reference()
	if err != nil {
		uc.log.Error().Err(err).Msg("digest de referencia mal configurado")
		return false, err
	}

	sum := sha256.Sum256([]byte(password))
	valid := subtle.ConstantTimeCompare(sum[:], reference) == 1
	uc.log.Info().Str("user_id", caller.UserID).Bool("valid", valid).Msg("verificación de contraseña de administración")
	return valid, nil
}

func (uc *AdminPasswordUseCase) reference() ([]byte, error) {
	if len(uc.referenceHex) != sha256.Size*2 {
		return nil, &CallableError{Code: CodeFailedPrecondition, Message: "digest de referencia ausente o inválido"}
	}
	b, err := hex.DecodeString(uc.referenceHex)
	if err != nil {
		return nil, &CallableError{Code: CodeFailedPrecondition, Message: "digest de referencia ausente o inválido"}
	}
	return b, nil
}
