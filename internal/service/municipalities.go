package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

// municipalityResponse is a municipality with its title in the language of the request.
type municipalityResponse struct {
	model.Municipality
	Title string `json:"title"`
}

// municipalityView adds the title to a municipality. The language of the type label is taken
// from the Accept-Language header.
func municipalityView(c *gin.Context, m model.Municipality) any {
	lang := model.MatchLanguage(c.GetHeader("Accept-Language"))
	return municipalityResponse{Municipality: m, Title: m.Title(lang)}
}

// createMunicipality inserts the municipality specified in the request's JSON into the
// database. Town and code are required.
//
// Example REST API call:
//
//	> curl http://localhost:8080/municipalities --request "POST" --include --header "Content-Type: application/json" --header "Accept-Language: lt" --data '{"town": "Kaunas", "municipality_type": "D", "code": 52}'
func createMunicipality(c *gin.Context) {
	var newMunicipality model.Municipality
	if !bindCreate(c, &newMunicipality) {
		return
	}
	created, err := contacts.CreateMunicipality(c.Request.Context(), newMunicipality)
	if err != nil {
		respondError(c, err, admin.Municipalities.Name)
		return
	}
	c.IndentedJSON(http.StatusCreated, municipalityView(c, created))
}
