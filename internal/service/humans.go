package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/model"
)

// parseHumanQuery reads the list parameters of humans, which add 'birthday' to the generic ones.
func parseHumanQuery(c *gin.Context) (q admin.ListQuery, success bool) {
	q, success = parseListQuery(c, admin.Humans)
	if !success {
		return q, false
	}
	birthday, success := parseBirthday(c)
	if !success {
		return q, false
	}
	if birthday != nil {
		q.Conditions = append(q.Conditions, *birthday)
	}
	return q, true
}

// findHumans responds with a list of humans as JSON. Each human carries its main address, the
// joined phone numbers and email addresses that are not marked as unused, and whether contract
// data exists.
//
// The URL parameter 'q' is searched for in the first name, last name and old last name.
//
// The URL parameter 'birthday' consists of a month part and a day part, separated by '-'. The call
// returns all humans that have their birthday on this month and day, regardless of the year.
//
// The URL parameter 'limit' specifies how many humans matching the search criteria are returned.
// The URL parameter 'offset' specifies how many items from the sorted list of results are skipped
// in the beginning. Together with the 'limit' parameter, one can implement search result paging.
//
// The URL parameter 'orderby' specifies the property by which the results shall be sorted. Valid
// values are 'id', 'first_name', 'last_name', and 'birth_date'. If this URL parameter is not
// specified, the humans are sorted by last name and first name.
//
// If the URL parameter 'ascending' is set to 'false' then the sort order is reversed.
//
// REST API calls:
//
//	> curl "http://localhost:8080/humans"
//	> curl "http://localhost:8080/humans?q=Jon"
//	> curl "http://localhost:8080/humans?birthday=11-29"
//	> curl "http://localhost:8080/humans?limit=20&offset=60"
//	> curl "http://localhost:8080/humans?orderby=birth_date&ascending=false"
func findHumans(c *gin.Context) {
	q, success := parseHumanQuery(c)
	if !success {
		return
	}
	records, err := contacts.FindHumanRecords(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, admin.Humans.Name)
		return
	}
	summaries := make([]model.HumanSummary, len(records))
	for i, record := range records {
		summaries[i] = record.Summary()
	}
	c.IndentedJSON(http.StatusOK, summaries)
}

// createHuman inserts the human specified in the request's JSON into the database. It responds
// with the full human including the newly assigned id. First name, last name and gender are
// required. A main address can only be chosen after the human has addresses.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans --request "POST" --include --header "Content-Type: application/json" --data '{"first_name": "Jonas", "last_name": "Jonaitis", "gender": "M", "birth_date": "1987-03-18T00:00:00Z"}'
func createHuman(c *gin.Context) {
	var newHuman model.Human
	if !bindCreate(c, &newHuman) {
		return
	}
	created, err := contacts.CreateHuman(c.Request.Context(), newHuman)
	if err != nil {
		respondError(c, err, admin.Humans.Name)
		return
	}
	c.IndentedJSON(http.StatusCreated, created)
}

// findHumanByID locates the human whose ID value matches the id parameter of the request URL,
// then returns that human together with its addresses, phones, emails, institutions and
// contract data.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans/56
func findHumanByID(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	detail, err := contacts.GetHumanDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, admin.Humans.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, detail)
}

// updateHumanByID updates the human whose ID value matches the id parameter of the request URL,
// updates the values specified in the JSON (and only those), and finally responds with the new
// version of the human. The main address must be one of the human's own addresses.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/humans/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"academic_degree": "PhD"}'
//	> curl http://localhost:8080/humans/56 --request "PUT" --include --header "Content-Type: application/json" --data '{"main_address_id": 4, "old_last_name": null}'
func updateHumanByID(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	var patch model.Human
	nulls, success := bindPatch(c, &patch)
	if !success {
		return
	}
	if err := contacts.UpdateHuman(c.Request.Context(), id, patch, nulls); err != nil {
		respondError(c, err, admin.Humans.Name)
		return
	}
	findHumanByID(c)
}

// deleteHumanByID deletes the human whose ID value matches the id parameter of the request URL
// from the database, together with its addresses, phones, emails, institutions and contract
// data.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans/56 --request "DELETE"
func deleteHumanByID(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	if err := contacts.DeleteHuman(c.Request.Context(), id); err != nil {
		respondError(c, err, admin.Humans.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "human deleted"})
}

// findContractInfoOfHuman responds with the contract data of the human in the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans/56/contract-info
func findContractInfoOfHuman(c *gin.Context) {
	humanId, success := parseId(c)
	if !success || !humanExists(c, humanId) {
		return
	}
	info, err := contacts.GetContractInfo(c.Request.Context(), humanId)
	if err != nil {
		respondError(c, err, admin.ContractInfos.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, info)
}

// putContractInfoOfHuman creates or replaces the contract data of the human in the request URL.
// Values that are missing in the JSON are stored as empty.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans/56/contract-info --request "PUT" --include --header "Content-Type: application/json" --data '{"bank_name": "SEB", "bank_account": "LT12 1000 0111 0100 1000"}'
func putContractInfoOfHuman(c *gin.Context) {
	humanId, success := parseId(c)
	if !success {
		return
	}
	var info model.InfoForContracts
	if !bindCreate(c, &info) {
		return
	}
	if !humanExists(c, humanId) {
		return
	}
	stored, err := contacts.PutContractInfo(c.Request.Context(), humanId, info)
	if err != nil {
		respondError(c, err, admin.ContractInfos.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, stored)
}

// deleteContractInfoOfHuman deletes the contract data of the human in the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans/56/contract-info --request "DELETE"
func deleteContractInfoOfHuman(c *gin.Context) {
	humanId, success := parseId(c)
	if !success {
		return
	}
	if err := contacts.DeleteContractInfo(c.Request.Context(), humanId); err != nil {
		respondError(c, err, admin.ContractInfos.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "contract info deleted"})
}
