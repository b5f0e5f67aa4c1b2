package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому хранится *gorm.DB в context
const DBContextKey = contextKey("db")

// SessionContextKey - ключ неизменяемой сессии (auth.Session) в gin.Context
const SessionContextKey = contextKey("session")
