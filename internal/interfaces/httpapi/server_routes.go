package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/players", handler.RegisterPlayer)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/check-duplicate", handler.CheckPlayerDuplicate)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("PUT /v1/players/{playerID}", handler.UpdatePlayer)

	mux.HandleFunc("GET /v1/clubs", handler.ListClubs)
	mux.HandleFunc("POST /v1/clubs", handler.CreateClub)
	mux.HandleFunc("GET /v1/clubs/active", handler.ListActiveClubs)
	mux.HandleFunc("GET /v1/clubs/{clubID}", handler.GetClub)
	mux.HandleFunc("PUT /v1/clubs/{clubID}", handler.UpdateClub)
	mux.HandleFunc("DELETE /v1/clubs/{clubID}", handler.DeleteClub)
	mux.HandleFunc("GET /v1/clubs/{clubID}/players", handler.ListClubPlayers)

	mux.HandleFunc("GET /v1/national-teams", handler.ListNationalTeams)
	mux.HandleFunc("GET /v1/national-teams/{teamID}/players", handler.ListNationalTeamPlayers)

	mux.HandleFunc("POST /v1/matches", handler.CreateMatch)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/team-availability", handler.CheckTeamAvailability)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("PUT /v1/matches/{matchID}", handler.UpdateMatch)
	mux.HandleFunc("DELETE /v1/matches/{matchID}", handler.DeleteMatch)

	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("POST /v1/fixtures", handler.AddFixture)
	mux.HandleFunc("DELETE /v1/fixtures/{fixtureID}", handler.DeleteFixture)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/purge-matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPurgeMatchesJob)))
}
