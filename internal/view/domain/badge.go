package domain

import "strings"

// BadgeNeutral es la clase para estados fuera del vocabulario conocido.
const BadgeNeutral = "bg-secondary"

var badgeByStatus = map[string]string{
	"PENDIENTE":  "bg-warning",
	"CONFIRMADO": "bg-success",
	"COMPLETADO": "bg-success",
	"EXITOSO":    "bg-success",
	"APROBADO":   "bg-success",
	"RECHAZADO":  "bg-danger",
	"FALLIDO":    "bg-danger",
	"CANCELADO":  "bg-danger",
	"PROCESANDO": "bg-info",
	"EN_PROCESO": "bg-info",
}

// BadgeClass traduce un estado de registro a la clase del badge, sin
// distinguir mayúsculas.
func BadgeClass(status string) string {
	if class, ok := badgeByStatus[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return class
	}
	return BadgeNeutral
}
