package service

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/nmadb/contacts/internal/admin"
)

// resource binds the store functions of one entity to the generic list, get, update and delete
// endpoints.
type resource[T any] struct {
	admin  *admin.ModelAdmin
	list   func(context.Context, admin.ListQuery) ([]T, error)
	get    func(context.Context, int64) (T, error)
	update func(context.Context, int64, T, map[string]bool) error
	remove func(context.Context, int64) error
	// view optionally converts a record into its response representation.
	view func(*gin.Context, T) any
}

// register adds the list endpoint at path and the get, update and delete endpoints at
// path/:id.
func (r resource[T]) register(router *gin.Engine, path string) {
	router.GET(path, r.findAll)
	router.GET(path+"/:id", r.findById)
	router.PUT(path+"/:id", r.updateById)
	router.DELETE(path+"/:id", r.deleteById)
}

// registerInline adds the list and create endpoints of the records belonging to one human. path
// must contain the :id parameter of the human.
func (r resource[T]) registerInline(router *gin.Engine, path string, create func(context.Context, int64, T) (T, error)) {
	router.GET(path, r.findOfHuman)
	router.POST(path, func(c *gin.Context) {
		r.createForHuman(c, create)
	})
}

func (r resource[T]) render(c *gin.Context, item T) any {
	if r.view == nil {
		return item
	}
	return r.view(c, item)
}

func (r resource[T]) renderAll(c *gin.Context, items []T) any {
	if r.view == nil {
		return items
	}
	views := make([]any, len(items))
	for i, item := range items {
		views[i] = r.view(c, item)
	}
	return views
}

// findAll responds with one page of records as JSON. See parseListQuery for the URL parameters.
// An empty page is answered with an empty list.
//
// REST API calls:
//
//	> curl "http://localhost:8080/phones?q=+370&used=true"
//	> curl "http://localhost:8080/addresses?municipality_id=null&orderby=town&limit=20&offset=40"
func (r resource[T]) findAll(c *gin.Context) {
	q, success := parseListQuery(c, r.admin)
	if !success {
		return
	}
	r.respondList(c, q)
}

// findOfHuman responds with the records that belong to the human in the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans/56/phones
func (r resource[T]) findOfHuman(c *gin.Context) {
	humanId, success := parseId(c)
	if !success {
		return
	}
	q, success := parseListQuery(c, r.admin)
	if !success {
		return
	}
	if !humanExists(c, humanId) {
		return
	}
	q.Conditions = append(q.Conditions, admin.Condition{SQL: "human_id = ?", Args: []any{humanId}})
	r.respondList(c, q)
}

func (r resource[T]) respondList(c *gin.Context, q admin.ListQuery) {
	items, err := r.list(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, r.admin.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, r.renderAll(c, items))
}

// createForHuman inserts the record specified in the request's JSON for the human in the request
// URL. It responds with the full record including the newly assigned id.
//
// Example REST API call:
//
//	> curl http://localhost:8080/humans/56/emails --request "POST" --include --header "Content-Type: application/json" --data '{"address": "jonas@example.com", "used": true}'
func (r resource[T]) createForHuman(c *gin.Context, create func(context.Context, int64, T) (T, error)) {
	humanId, success := parseId(c)
	if !success {
		return
	}
	var item T
	if !bindCreate(c, &item) {
		return
	}
	if !humanExists(c, humanId) {
		return
	}
	created, err := create(c.Request.Context(), humanId, item)
	if err != nil {
		respondError(c, err, r.admin.Name)
		return
	}
	c.IndentedJSON(http.StatusCreated, r.render(c, created))
}

// findById locates the record whose ID value matches the id parameter of the request URL, then
// returns that record as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/municipalities/3
func (r resource[T]) findById(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	item, err := r.get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, r.admin.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, r.render(c, item))
}

// updateById updates the values specified in the JSON (and only those) of the record whose ID
// value matches the id parameter of the request URL, and finally responds with the new version
// of the record. A JSON null clears an optional value.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/phones/7 --request "PUT" --include --header "Content-Type: application/json" --data '{"used": false}'
//	> curl http://localhost:8080/addresses/4 --request "PUT" --include --header "Content-Type: application/json" --data '{"municipality_id": null}'
func (r resource[T]) updateById(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	var patch T
	nulls, success := bindPatch(c, &patch)
	if !success {
		return
	}
	if err := r.update(c.Request.Context(), id, patch, nulls); err != nil {
		respondError(c, err, r.admin.Name)
		return
	}

	// In the HTTP response, return the full record after the update.
	r.findById(c)
}

// deleteById deletes the record whose ID value matches the id parameter of the request URL from
// the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/institutions/12 --request "DELETE"
func (r resource[T]) deleteById(c *gin.Context) {
	id, success := parseId(c)
	if !success {
		return
	}
	if err := r.remove(c.Request.Context(), id); err != nil {
		respondError(c, err, r.admin.Name)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": r.admin.Name + " deleted"})
}

// humanExists answers the request with 404 if there is no human with the given id.
func humanExists(c *gin.Context, humanId int64) bool {
	if _, err := contacts.GetHuman(c.Request.Context(), humanId); err != nil {
		respondError(c, err, "human")
		return false
	}
	return true
}
