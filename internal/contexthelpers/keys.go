package contexthelpers

type contextKey string

const currentPathContextKey = contextKey("currentPath")
const csrfTokenContextKey = contextKey("csrfToken")
const playerIDContextKey = contextKey("playerID")
