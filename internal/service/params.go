package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gitlab.com/nmadb/contacts/internal/admin"
)

// allowedAscending are the allowed values for the 'ascending' URL parameter.
var allowedAscending = []string{"true", "false"}

// parseId reads the id parameter of the request URL. Ids that are not numbers cannot exist, so
// the request is answered with 404 without reaching out to the database.
func parseId(c *gin.Context) (id int64, success bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// parseListQuery inspects the URL parameters of a list request for the entity described by ma:
// the search term 'q', one parameter per list filter column, 'orderby', 'ascending', 'limit'
// and 'offset'.
func parseListQuery(c *gin.Context, ma *admin.ModelAdmin) (q admin.ListQuery, success bool) {
	q.Search = strings.TrimSpace(c.Query("q"))
	for _, filter := range ma.ListFilter {
		s, ok := c.GetQuery(filter.Column)
		if !ok {
			continue
		}
		value, err := filter.ParseValue(s)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return q, false
		}
		q.Filters = append(q.Filters, admin.Filter{Column: filter.Column, Value: value})
	}
	if q.Limit, q.Offset, success = parseLimitAndOffset(c); !success {
		return q, false
	}
	if q.OrderBy, q.Descending, success = parseOrderbyAndAscending(c, ma); !success {
		return q, false
	}
	return q, true
}

// parseLimitAndOffset inspects the URL parameters and determines values for limit and offset of
// the result set. A limit of 0 means that all rows are returned.
func parseLimitAndOffset(c *gin.Context) (limit int, offset int, success bool) {
	if s := c.Query("limit"); s != "" {
		var err error
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid limit parameter"})
			return 0, 0, false
		}
	}
	if s := c.Query("offset"); s != "" {
		var err error
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid offset parameter"})
			return 0, 0, false
		}
	}
	return limit, offset, true
}

// parseOrderbyAndAscending inspects the URL parameters and determines the sort column and
// direction of the result set. Only list columns can be used for sorting. Without 'orderby' the
// default ordering of the entity applies.
func parseOrderbyAndAscending(c *gin.Context, ma *admin.ModelAdmin) (orderby string, descending bool, success bool) {
	orderby = c.Query("orderby")
	if orderby != "" && !ma.Sortable(orderby) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid orderby parameter"})
		return "", false, false
	}
	ascending := c.Query("ascending")
	if ascending == "" {
		ascending = "true"
	}
	if !contains(allowedAscending, ascending) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid ascending parameter"})
		return "", false, false
	}
	return orderby, ascending == "false", true
}

// parseBirthday inspects the 'birthday' URL parameter, which consists of a month part and a day
// part separated by '-'. It returns a condition matching humans born on that day of any year.
func parseBirthday(c *gin.Context) (condition *admin.Condition, success bool) {
	birthday := c.Query("birthday")
	if birthday == "" {
		return nil, true
	}
	before, after, found := strings.Cut(birthday, "-")
	month, errMonth := strconv.Atoi(before)
	day, errDay := strconv.Atoi(after)
	if !found || errMonth != nil || errDay != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid birthday URL parameter"})
		return nil, false
	}
	return &admin.Condition{
		SQL:  "MONTH(birth_date) = ? AND DAY(birth_date) = ?",
		Args: []any{month, day},
	}, true
}

// parseIds reads a comma separated list of ids.
func parseIds(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("no ids")
	}
	return ids, nil
}

// contains returns true if a string is present in a slice.
func contains(slice []string, str string) bool {
	for _, v := range slice {
		if v == str {
			return true
		}
	}
	return false
}

// bindCreate decodes and validates the JSON body of a create request. Besides the binding rules
// it checks that all fields tagged create:"required" are present.
func bindCreate(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return false
	}
	if err := createValidator.Struct(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return false
	}
	return true
}

// bindPatch decodes and validates the JSON body of a partial update. Fields that are missing in
// the JSON stay nil in obj. The returned set holds the fields that were explicitly set to null.
func bindPatch(c *gin.Context, obj any) (nulls map[string]bool, success bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return nil, false
	}
	// It only makes sense to continue if we have at least one value to update.
	if len(bytes.TrimSpace(body)) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "no values to be updated"})
		return nil, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return nil, false
	}
	if err := binding.JSON.BindBody(body, obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
		return nil, false
	}
	nulls = map[string]bool{}
	for name, value := range fields {
		if string(bytes.TrimSpace(value)) == "null" {
			nulls[name] = true
		}
	}
	return nulls, true
}

// bindingMessage turns a binding error into the message of a 400 response.
func bindingMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "invalid JSON"
	}
	messages := make([]string, len(validationErrors))
	for i, fe := range validationErrors {
		if fe.Tag() == "required" {
			messages[i] = "missing value for " + fe.Field()
		} else {
			messages[i] = fmt.Sprintf("invalid value for %s: %s", fe.Field(), fe.Tag())
		}
	}
	return strings.Join(messages, "; ")
}
