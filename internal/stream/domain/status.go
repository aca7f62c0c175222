package domain

// ConnectionStatus es el estado que muestra el indicador del stream.
type ConnectionStatus string

const (
	StatusConnecting ConnectionStatus = "conectando"
	StatusConnected  ConnectionStatus = "conectado"
	StatusError      ConnectionStatus = "error"
)
