package server

// Server bundles the entity-specific HTTP servers behind one route
// registrar.
type Server struct {
	AuthServer
	AdminServer
	EvaluationServer

	auth AuthMiddleware
}

func NewServer(
	authServer AuthServer,
	adminServer AdminServer,
	evaluationServer EvaluationServer,
	auth AuthMiddleware,
) Server {
	return Server{
		AuthServer:       authServer,
		AdminServer:      adminServer,
		EvaluationServer: evaluationServer,
		auth:             auth,
	}
}
