package service

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/nmadb/contacts/internal/admin"
	"gitlab.com/nmadb/contacts/internal/spreadsheet"
)

// exportHumans downloads a spreadsheet with one row per human. The URL parameter 'format' is
// 'ods' (the default) or 'xlsx'. The URL parameter 'ids' selects humans by a comma separated
// list of ids. Without it, the list parameters of findHumans select the humans.
//
// REST API calls:
//
//	> curl --output humans.ods "http://localhost:8080/exports/humans?q=Jon"
//	> curl --output humans.xlsx "http://localhost:8080/exports/humans?format=xlsx&ids=3,5,8"
func exportHumans(c *gin.Context) {
	format, err := spreadsheet.ParseFormat(c.Query("format"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid format parameter"})
		return
	}
	q, success := parseHumanQuery(c)
	if !success {
		return
	}
	if s, ok := c.GetQuery("ids"); ok {
		ids, err := parseIds(s)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid ids parameter"})
			return
		}
		q = admin.ListQuery{
			OrderBy:    q.OrderBy,
			Descending: q.Descending,
			Conditions: []admin.Condition{{SQL: "id IN (?)", Args: []any{ids}}},
		}
	}

	records, err := contacts.FindHumanRecords(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, admin.Humans.Name)
		return
	}
	var buf bytes.Buffer
	if err := spreadsheet.Write(&buf, format, "Humans", admin.HumanExportTable(records)); err != nil {
		respondError(c, err, admin.Humans.Name)
		return
	}
	serviceMetrics.IncrementExports(string(format), len(records))
	c.Header("Content-Disposition", `attachment; filename="humans.`+format.Extension()+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
