package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrInvalidTransactionType  = errors.New("Invalid transaction type.")
	ErrEmptyItems              = errors.New("la transacción no tiene ítems")
	ErrMissingPrice            = errors.New("el producto no tiene el precio requerido")
	ErrTransactionTypeMismatch = errors.New("el tipo de la transacción no coincide")
)

// badRequest agrupa los errores que el llamador puede corregir cambiando su petición.
var badRequest = []error{
	ErrInvalidInput,
	ErrInsufficientStock,
	ErrInvalidTransactionType,
	ErrEmptyItems,
	ErrMissingPrice,
	ErrTransactionTypeMismatch,
}

// IsNotFound indica si err (o alguno de los errores que envuelve) es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsBadRequest indica si err pertenece a la familia BadRequest.
func IsBadRequest(err error) bool {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
