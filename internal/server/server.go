package server

// Server joins the entity-specific HTTP servers. There is only the
// opportunity server today, but the shape leaves room for more.
type Server struct {
	OpportunityServer
}

func NewServer(
	opportunityServer OpportunityServer,
) Server {
	return Server{
		OpportunityServer: opportunityServer,
	}
}
