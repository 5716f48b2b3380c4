package auth

import "context"

// Claims es el principal autenticado extraído del token.
// Puede estar ausente: los handlers deciden si exigen auth.
type Claims struct {
	UserID string
	Email  string
	Staff  bool
}

// Verifier verifica un token y devuelve claims o error.
// La emisión y el blacklisting de tokens son de un colaborador externo.
type Verifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
